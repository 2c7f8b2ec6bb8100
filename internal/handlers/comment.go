package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type commentBody struct {
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
}

type commentPatchBody struct {
	AuthorName *string `json:"author_name"`
	Text       *string `json:"text"`
}

type reviewBody struct {
	Verdict string `json:"verdict"`
}

func (ch *CommentHandler) CreateForLecturer(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.CreateForLecturer(c.Request.Context(), lecturerID, services.CreateCommentInput{
		AuthorName: req.AuthorName,
		Text:       req.Text,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, comment)
}

func (ch *CommentHandler) ListForLecturer(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	comments, err := ch.commentService.ListForLecturer(c.Request.Context(), lecturerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comments)
}

func (ch *CommentHandler) UpdateForLecturer(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}
	var req commentPatchBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.UpdateForLecturer(c.Request.Context(), lecturerID, commentID, services.UpdateCommentInput{
		AuthorName: req.AuthorName,
		Text:       req.Text,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comment)
}

func (ch *CommentHandler) ReviewForLecturer(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}
	var req reviewBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.ReviewForLecturer(c.Request.Context(), lecturerID, commentID, moderation.Verdict(req.Verdict))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comment)
}

func (ch *CommentHandler) DeleteForLecturer(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}

	if err := ch.commentService.DeleteForLecturer(c.Request.Context(), lecturerID, commentID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *CommentHandler) UnreviewedForLecturers(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	comments, total, err := ch.commentService.UnreviewedForLecturers(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(comments, page, pageSize, total))
}

func (ch *CommentHandler) CreateForEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.CreateForEvent(c.Request.Context(), eventID, services.CreateCommentInput{
		AuthorName: req.AuthorName,
		Text:       req.Text,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, comment)
}

func (ch *CommentHandler) ListForEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	comments, err := ch.commentService.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comments)
}

func (ch *CommentHandler) UpdateForEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}
	var req commentPatchBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.UpdateForEvent(c.Request.Context(), eventID, commentID, services.UpdateCommentInput{
		AuthorName: req.AuthorName,
		Text:       req.Text,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comment)
}

func (ch *CommentHandler) ReviewForEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}
	var req reviewBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	comment, err := ch.commentService.ReviewForEvent(c.Request.Context(), eventID, commentID, moderation.Verdict(req.Verdict))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, comment)
}

func (ch *CommentHandler) DeleteForEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "commentId")
	if !ok {
		return
	}

	if err := ch.commentService.DeleteForEvent(c.Request.Context(), eventID, commentID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *CommentHandler) UnreviewedForEvents(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	comments, total, err := ch.commentService.UnreviewedForEvents(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(comments, page, pageSize, total))
}
