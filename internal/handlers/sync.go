package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (sh *SyncHandler) AuthURL(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	redirectURL := c.Query("redirect_url")
	if redirectURL == "" {
		RespondBadRequest(c, "redirect_url is required")
		return
	}

	url, err := sh.syncService.AuthURL(c.Request.Context(), groupID, redirectURL)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"auth_url": url})
}

func (sh *SyncHandler) SaveCredential(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Code        string `json:"code"`
		RedirectURL string `json:"redirect_url"`
		CalendarID  string `json:"calendar_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	err := sh.syncService.SaveCredential(c.Request.Context(), groupID, req.Code, req.RedirectURL, req.CalendarID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *SyncHandler) RemoveCredential(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := sh.syncService.RemoveCredential(c.Request.Context(), groupID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *SyncHandler) RequestSync(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := sh.syncService.RequestSync(c.Request.Context(), groupID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"queued": true})
}
