package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/requestdata"
)

// authedCtx simulates what the auth middleware attaches for a logged-in
// moderator.
func authedCtx() context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
	})
}
