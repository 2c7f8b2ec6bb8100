package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(groupService services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (gh *GroupHandler) Create(c *gin.Context) {
	var req struct {
		Name   string `json:"name"`
		Number string `json:"number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	group, err := gh.groupService.Create(c.Request.Context(), services.CreateGroupInput{
		Name:   req.Name,
		Number: req.Number,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, group)
}

func (gh *GroupHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	group, err := gh.groupService.Get(c.Request.Context(), id, c.Query("include_deleted") == "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, group)
}

func (gh *GroupHandler) List(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	groups, total, err := gh.groupService.List(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(groups, page, pageSize, total))
}

func (gh *GroupHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Number *string `json:"number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	group, err := gh.groupService.Update(c.Request.Context(), id, services.UpdateGroupInput{
		Name:   req.Name,
		Number: req.Number,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, group)
}

func (gh *GroupHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := gh.groupService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
