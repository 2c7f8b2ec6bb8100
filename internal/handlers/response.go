package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondError maps a service failure onto the wire. Typed errors carry
// their own status; upstream detail never leaks to the client.
func RespondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg := ae.Error()
		if ae.Code == apperr.CodeUpstream {
			msg = "upstream service failure"
		}
		c.JSON(ae.Status, ErrorEnvelope{
			Error: APIError{Message: msg, Code: string(ae.Code), Field: ae.Field},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "internal error"},
	})
}

func RespondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{Message: msg, Code: string(apperr.CodeValidation)},
	})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondBadRequest(c, name+" must be a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDField(c *gin.Context, name, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondBadRequest(c, name+" must be a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDList keeps nil distinct from empty: a nil input slice means the
// field was omitted.
func parseUUIDList(c *gin.Context, name string, raw []string) ([]uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			RespondBadRequest(c, name+" must contain valid uuids")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
