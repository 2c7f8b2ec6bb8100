package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/types"
)

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, number string) *types.Group {
	tb.Helper()
	g := &types.Group{
		ID:     uuid.New(),
		Number: number,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, name, building string) *types.Room {
	tb.Helper()
	r := &types.Room{
		ID:        uuid.New(),
		Name:      name,
		Direction: types.DirectionNorth,
		Building:  building,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedLecturer(tb testing.TB, ctx context.Context, tx *gorm.DB, lastName string) *types.Lecturer {
	tb.Helper()
	l := &types.Lecturer{
		ID:        uuid.New(),
		FirstName: "Ivan",
		LastName:  lastName,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lecturer: %v", err)
	}
	return l
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, start, end time.Time, groups []*types.Group) *types.Event {
	tb.Helper()
	e := &types.Event{
		ID:      uuid.New(),
		Name:    name,
		StartTS: start,
		EndTS:   end,
		Groups:  groups,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedPhoto(tb testing.TB, ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, link string, status moderation.Status) *types.Photo {
	tb.Helper()
	p := &types.Photo{
		ID:            uuid.New(),
		LecturerID:    lecturerID,
		Link:          link,
		ApproveStatus: status,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed photo: %v", err)
	}
	return p
}

func SeedLecturerComment(tb testing.TB, ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, text string, status moderation.Status, createTS time.Time) *types.CommentLecturer {
	tb.Helper()
	c := &types.CommentLecturer{
		ID:            uuid.New(),
		LecturerID:    lecturerID,
		AuthorName:    "anon",
		Text:          text,
		ApproveStatus: status,
		CreateTS:      createTS,
		UpdateTS:      createTS,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed lecturer comment: %v", err)
	}
	return c
}

func SeedEventComment(tb testing.TB, ctx context.Context, tx *gorm.DB, eventID uuid.UUID, text string, status moderation.Status, createTS time.Time) *types.CommentEvent {
	tb.Helper()
	c := &types.CommentEvent{
		ID:            uuid.New(),
		EventID:       eventID,
		AuthorName:    "anon",
		Text:          text,
		ApproveStatus: status,
		CreateTS:      createTS,
		UpdateTS:      createTS,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed event comment: %v", err)
	}
	return c
}
