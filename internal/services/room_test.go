package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
	"github.com/campusboard/timetable-backend/internal/types"
)

func newRoomService(t *testing.T, db *gorm.DB) RoomService {
	t.Helper()
	log := testutil.Logger(t)
	return NewRoomService(db, log, repos.NewRoomRepo(db, log))
}

func TestRoomUpdateNameCollisionIsConflict(t *testing.T) {
	db := testutil.DB(t)
	svc := newRoomService(t, db)
	ctx := authedCtx()

	if _, err := svc.Create(ctx, CreateRoomInput{
		Name: "101", Direction: string(types.DirectionNorth), Building: "Main",
	}); err != nil {
		t.Fatalf("Create 101: %v", err)
	}
	other, err := svc.Create(ctx, CreateRoomInput{
		Name: "102", Direction: string(types.DirectionNorth), Building: "Main",
	})
	if err != nil {
		t.Fatalf("Create 102: %v", err)
	}

	taken := "101"
	if _, err := svc.Update(ctx, other.ID, UpdateRoomInput{Name: &taken}); !apperr.IsConflict(err) {
		t.Fatalf("rename onto an existing room: expected Conflict, got %v", err)
	}

	// keeping the current name is not a collision
	same := "102"
	newURL := "https://maps.example.com/main"
	updated, err := svc.Update(ctx, other.ID, UpdateRoomInput{Name: &same, BuildingURL: &newURL})
	if err != nil {
		t.Fatalf("no-op rename: %v", err)
	}
	if updated.BuildingURL != newURL {
		t.Fatalf("building_url = %q, want %q", updated.BuildingURL, newURL)
	}

	// the same room name in another building is allowed
	annex, err := svc.Create(ctx, CreateRoomInput{
		Name: "101", Direction: string(types.DirectionSouth), Building: "Annex",
	})
	if err != nil {
		t.Fatalf("Create annex 101: %v", err)
	}
	main := "Main"
	if _, err := svc.Update(ctx, annex.ID, UpdateRoomInput{Building: &main}); !apperr.IsConflict(err) {
		t.Fatalf("moving into an occupied building: expected Conflict, got %v", err)
	}
}
