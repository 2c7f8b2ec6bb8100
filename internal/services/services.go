package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/requestdata"
)

// requireUser gates mutating operations: the middleware puts the
// authenticated principal into the context, services re-check it here.
func requireUser(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperr.Unauthorized("not authenticated")
	}
	return rd, nil
}
