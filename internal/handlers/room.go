package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type RoomHandler struct {
	roomService services.RoomService
}

func NewRoomHandler(roomService services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

func (rh *RoomHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Direction   string `json:"direction"`
		Building    string `json:"building"`
		BuildingURL string `json:"building_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	room, err := rh.roomService.Create(c.Request.Context(), services.CreateRoomInput{
		Name:        req.Name,
		Direction:   req.Direction,
		Building:    req.Building,
		BuildingURL: req.BuildingURL,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, room)
}

func (rh *RoomHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	room, err := rh.roomService.Get(c.Request.Context(), id, c.Query("include_deleted") == "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, room)
}

func (rh *RoomHandler) List(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	rooms, total, err := rh.roomService.List(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(rooms, page, pageSize, total))
}

func (rh *RoomHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Direction   *string `json:"direction"`
		Building    *string `json:"building"`
		BuildingURL *string `json:"building_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	room, err := rh.roomService.Update(c.Request.Context(), id, services.UpdateRoomInput{
		Name:        req.Name,
		Direction:   req.Direction,
		Building:    req.Building,
		BuildingURL: req.BuildingURL,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, room)
}

func (rh *RoomHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := rh.roomService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
