package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
)

func newPhotoService(t *testing.T, db *gorm.DB, cfg moderation.Config) PhotoService {
	t.Helper()
	log := testutil.Logger(t)
	return NewPhotoService(
		db,
		log,
		moderation.NewEngine(cfg, log),
		repos.NewLecturerRepo(db, log),
		repos.NewPhotoRepo(db, log),
		nil,
	)
}

func TestPhotoDeclineFlow(t *testing.T) {
	db := testutil.DB(t)
	svc := newPhotoService(t, db, moderation.Config{ReviewPhotos: true})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	photo := testutil.SeedPhoto(t, ctx, db, lecturer.ID, "photos/petrov/a.jpg", moderation.StatusPending)

	declined, err := svc.Review(authedCtx(), lecturer.ID, photo.ID, moderation.VerdictDecline)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if declined.ApproveStatus != moderation.StatusDeclined || !declined.IsDeleted {
		t.Fatalf("expected DECLINED + deleted, got %+v", declined)
	}

	if _, err := svc.Get(ctx, lecturer.ID, photo.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("declined photo readable: expected NotFound, got %v", err)
	}
	kept, err := svc.Get(ctx, lecturer.ID, photo.ID, true)
	if err != nil {
		t.Fatalf("Get include_deleted: %v", err)
	}
	if kept.ApproveStatus != moderation.StatusDeclined {
		t.Fatalf("history lost the DECLINED status: %+v", kept)
	}
}

func TestPhotoReviewIsSingleShot(t *testing.T) {
	db := testutil.DB(t)
	svc := newPhotoService(t, db, moderation.Config{ReviewPhotos: true})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	photo := testutil.SeedPhoto(t, ctx, db, lecturer.ID, "photos/petrov/b.jpg", moderation.StatusPending)

	if _, err := svc.Review(authedCtx(), lecturer.ID, photo.ID, moderation.VerdictApprove); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.Review(authedCtx(), lecturer.ID, photo.ID, moderation.VerdictDecline); !apperr.IsForbidden(err) {
		t.Fatalf("second review: expected Forbidden, got %v", err)
	}

	visible, err := svc.ListApproved(ctx, lecturer.ID)
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("approved photo missing from listing")
	}
}

func TestPhotoReviewWrongLecturerIsNotFound(t *testing.T) {
	db := testutil.DB(t)
	svc := newPhotoService(t, db, moderation.Config{ReviewPhotos: true})
	ctx := context.Background()

	owner := testutil.SeedLecturer(t, ctx, db, "Petrov")
	stranger := testutil.SeedLecturer(t, ctx, db, "Sidorov")
	photo := testutil.SeedPhoto(t, ctx, db, owner.ID, "photos/petrov/c.jpg", moderation.StatusPending)

	if _, err := svc.Review(authedCtx(), stranger.ID, photo.ID, moderation.VerdictApprove); !apperr.IsNotFound(err) {
		t.Fatalf("wrong parent review: expected NotFound, got %v", err)
	}

	// still pending and reviewable through the right parent
	if _, err := svc.Review(authedCtx(), owner.ID, photo.ID, moderation.VerdictApprove); err != nil {
		t.Fatalf("review under owner: %v", err)
	}
}

func TestPhotoDeleteClearsAvatar(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	photoSvc := newPhotoService(t, db, moderation.Config{ReviewPhotos: true})
	lecturerRepo := repos.NewLecturerRepo(db, log)
	lecturerSvc := NewLecturerService(db, log, lecturerRepo, repos.NewPhotoRepo(db, log), repos.NewCommentLecturerRepo(db, log))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	photo := testutil.SeedPhoto(t, ctx, db, lecturer.ID, "photos/petrov/d.jpg", moderation.StatusApproved)

	if _, err := lecturerSvc.SetAvatar(authedCtx(), lecturer.ID, photo.ID); err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	got, err := lecturerRepo.GetByID(ctx, nil, lecturer.ID, false)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AvatarID == nil || *got.AvatarID != photo.ID {
		t.Fatalf("avatar not set: %+v", got.AvatarID)
	}

	if err := photoSvc.Delete(authedCtx(), lecturer.ID, photo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = lecturerRepo.GetByID(ctx, nil, lecturer.ID, false)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got.AvatarID != nil {
		t.Fatalf("avatar still set after photo deletion: %v", got.AvatarID)
	}
}

func TestLecturerDeleteCascadesToContent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	photoSvc := newPhotoService(t, db, moderation.Config{ReviewPhotos: true})
	lecturerSvc := NewLecturerService(db, log,
		repos.NewLecturerRepo(db, log),
		repos.NewPhotoRepo(db, log),
		repos.NewCommentLecturerRepo(db, log))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	photo := testutil.SeedPhoto(t, ctx, db, lecturer.ID, "photos/petrov/f.jpg", moderation.StatusApproved)
	comment := testutil.SeedLecturerComment(t, ctx, db, lecturer.ID, "kept", moderation.StatusApproved, time.Now().UTC())

	if err := lecturerSvc.Delete(authedCtx(), lecturer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := photoSvc.Get(ctx, lecturer.ID, photo.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("photo of a deleted lecturer readable: expected NotFound, got %v", err)
	}
	keptPhoto, err := photoSvc.Get(ctx, lecturer.ID, photo.ID, true)
	if err != nil {
		t.Fatalf("Get include_deleted: %v", err)
	}
	if !keptPhoto.IsDeleted || keptPhoto.ApproveStatus != moderation.StatusApproved {
		t.Fatalf("cascade lost the photo state: %+v", keptPhoto)
	}

	commentRepo := repos.NewCommentLecturerRepo(db, log)
	if _, err := commentRepo.GetForLecturer(ctx, nil, lecturer.ID, comment.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("comment of a deleted lecturer readable: expected NotFound, got %v", err)
	}
	keptComment, err := commentRepo.GetForLecturer(ctx, nil, lecturer.ID, comment.ID, true)
	if err != nil {
		t.Fatalf("GetForLecturer include_deleted: %v", err)
	}
	if !keptComment.IsDeleted {
		t.Fatalf("cascade did not mark the comment deleted: %+v", keptComment)
	}
}

func TestSetAvatarRejectsPendingPhoto(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	lecturerSvc := NewLecturerService(db, log, repos.NewLecturerRepo(db, log), repos.NewPhotoRepo(db, log), repos.NewCommentLecturerRepo(db, log))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	pending := testutil.SeedPhoto(t, ctx, db, lecturer.ID, "photos/petrov/e.jpg", moderation.StatusPending)

	if _, err := lecturerSvc.SetAvatar(authedCtx(), lecturer.ID, pending.ID); !apperr.IsValidation(err) {
		t.Fatalf("pending avatar: expected Validation, got %v", err)
	}
}
