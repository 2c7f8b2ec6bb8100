package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type LecturerHandler struct {
	lecturerService services.LecturerService
}

func NewLecturerHandler(lecturerService services.LecturerService) *LecturerHandler {
	return &LecturerHandler{lecturerService: lecturerService}
}

func (lh *LecturerHandler) Create(c *gin.Context) {
	var req struct {
		FirstName   string `json:"first_name"`
		MiddleName  string `json:"middle_name"`
		LastName    string `json:"last_name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	lecturer, err := lh.lecturerService.Create(c.Request.Context(), services.CreateLecturerInput{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, lecturer)
}

func (lh *LecturerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	lecturer, err := lh.lecturerService.Get(c.Request.Context(), id, c.Query("include_deleted") == "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, lecturer)
}

func (lh *LecturerHandler) List(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	lecturers, total, err := lh.lecturerService.List(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(lecturers, page, pageSize, total))
}

func (lh *LecturerHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		FirstName   *string `json:"first_name"`
		MiddleName  *string `json:"middle_name"`
		LastName    *string `json:"last_name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	lecturer, err := lh.lecturerService.Update(c.Request.Context(), id, services.UpdateLecturerInput{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, lecturer)
}

func (lh *LecturerHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := lh.lecturerService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (lh *LecturerHandler) SetAvatar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		PhotoID string `json:"photo_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	photoID, ok := parseUUIDField(c, "photo_id", req.PhotoID)
	if !ok {
		return
	}

	lecturer, err := lh.lecturerService.SetAvatar(c.Request.Context(), id, photoID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, lecturer)
}
