package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/services"
)

type PhotoHandler struct {
	photoService services.PhotoService
}

func NewPhotoHandler(photoService services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

func (ph *PhotoHandler) Upload(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		RespondBadRequest(c, "failed to read file")
		return
	}
	defer file.Close()

	photo, err := ph.photoService.Upload(c.Request.Context(), lecturerID, header.Filename, file)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, photo)
}

func (ph *PhotoHandler) Get(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	photoID, ok := uuidParam(c, "photoId")
	if !ok {
		return
	}

	photo, err := ph.photoService.Get(c.Request.Context(), lecturerID, photoID, c.Query("include_deleted") == "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, photo)
}

func (ph *PhotoHandler) List(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	photos, err := ph.photoService.ListApproved(c.Request.Context(), lecturerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, photos)
}

func (ph *PhotoHandler) Review(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	photoID, ok := uuidParam(c, "photoId")
	if !ok {
		return
	}
	var req reviewBody
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	photo, err := ph.photoService.Review(c.Request.Context(), lecturerID, photoID, moderation.Verdict(req.Verdict))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, photo)
}

func (ph *PhotoHandler) Delete(c *gin.Context) {
	lecturerID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	photoID, ok := uuidParam(c, "photoId")
	if !ok {
		return
	}

	if err := ph.photoService.Delete(c.Request.Context(), lecturerID, photoID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *PhotoHandler) Unreviewed(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	photos, total, err := ph.photoService.Unreviewed(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(photos, page, pageSize, total))
}
