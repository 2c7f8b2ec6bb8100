package repos

import (
	"context"
	"testing"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
)

func TestPhotoRepoOwnershipScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPhotoRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	stranger := testutil.SeedLecturer(t, ctx, tx, "Sidorov")
	photo := testutil.SeedPhoto(t, ctx, tx, owner.ID, "photos/petrov/1.jpg", moderation.StatusApproved)

	if _, err := repo.GetForLecturer(ctx, tx, owner.ID, photo.ID, false); err != nil {
		t.Fatalf("GetForLecturer: %v", err)
	}
	if _, err := repo.GetForLecturer(ctx, tx, stranger.ID, photo.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("wrong parent: expected NotFound, got %v", err)
	}
}

func TestPhotoRepoDeclinedStaysReadableWithDeleted(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPhotoRepo(db, testutil.Logger(t))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	photo := testutil.SeedPhoto(t, ctx, tx, lecturer.ID, "photos/petrov/2.jpg", moderation.StatusPending)

	err := repo.Update(ctx, tx, photo.ID, map[string]any{
		"approve_status": moderation.StatusDeclined,
		"is_deleted":     true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := repo.GetForLecturer(ctx, tx, lecturer.ID, photo.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("declined photo: expected NotFound, got %v", err)
	}

	got, err := repo.GetForLecturer(ctx, tx, lecturer.ID, photo.ID, true)
	if err != nil {
		t.Fatalf("GetForLecturer include_deleted: %v", err)
	}
	if got.ApproveStatus != moderation.StatusDeclined || !got.IsDeleted {
		t.Fatalf("expected DECLINED + deleted, got %+v", got)
	}
}

func TestPhotoRepoLinkExists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPhotoRepo(db, testutil.Logger(t))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	testutil.SeedPhoto(t, ctx, tx, lecturer.ID, "photos/petrov/3.jpg", moderation.StatusPending)

	exists, err := repo.LinkExists(ctx, tx, "photos/petrov/3.jpg")
	if err != nil {
		t.Fatalf("LinkExists: %v", err)
	}
	if !exists {
		t.Fatal("LinkExists: expected true for stored link")
	}
}
