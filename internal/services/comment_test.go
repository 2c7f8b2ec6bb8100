package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
	"github.com/campusboard/timetable-backend/internal/types"
)

func newCommentService(t *testing.T, db *gorm.DB, cfg moderation.Config) CommentService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCommentService(
		db,
		log,
		moderation.NewEngine(cfg, log),
		repos.NewLecturerRepo(db, log),
		repos.NewEventRepo(db, log),
		repos.NewCommentLecturerRepo(db, log),
		repos.NewCommentEventRepo(db, log),
	)
}

func TestLecturerCommentModerationFlow(t *testing.T) {
	db := testutil.DB(t)
	svc := newCommentService(t, db, moderation.Config{ReviewLecturerComments: true})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")

	comment, err := svc.CreateForLecturer(ctx, lecturer.ID, CreateCommentInput{
		AuthorName: "student",
		Text:       "great lectures",
	})
	if err != nil {
		t.Fatalf("CreateForLecturer: %v", err)
	}
	if comment.ApproveStatus != moderation.StatusPending {
		t.Fatalf("status = %s, want PENDING", comment.ApproveStatus)
	}

	// pending content is not publicly listed yet
	visible, err := svc.ListForLecturer(ctx, lecturer.ID)
	if err != nil {
		t.Fatalf("ListForLecturer: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("pending comment leaked into public listing")
	}

	// edits are allowed while pending
	newText := "great lectures, edited"
	updated, err := svc.UpdateForLecturer(authedCtx(), lecturer.ID, comment.ID, UpdateCommentInput{Text: &newText})
	if err != nil {
		t.Fatalf("UpdateForLecturer before review: %v", err)
	}
	if updated.Text != newText {
		t.Fatalf("text = %q, want %q", updated.Text, newText)
	}

	reviewed, err := svc.ReviewForLecturer(authedCtx(), lecturer.ID, comment.ID, moderation.VerdictApprove)
	if err != nil {
		t.Fatalf("ReviewForLecturer: %v", err)
	}
	if reviewed.ApproveStatus != moderation.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", reviewed.ApproveStatus)
	}

	// approved content is immutable and review is single-shot
	if _, err := svc.UpdateForLecturer(authedCtx(), lecturer.ID, comment.ID, UpdateCommentInput{Text: &newText}); !apperr.IsForbidden(err) {
		t.Fatalf("update after approval: expected Forbidden, got %v", err)
	}
	if _, err := svc.ReviewForLecturer(authedCtx(), lecturer.ID, comment.ID, moderation.VerdictDecline); !apperr.IsForbidden(err) {
		t.Fatalf("second review: expected Forbidden, got %v", err)
	}

	visible, err = svc.ListForLecturer(ctx, lecturer.ID)
	if err != nil {
		t.Fatalf("ListForLecturer after approval: %v", err)
	}
	if len(visible) != 1 || visible[0].Text != newText {
		t.Fatalf("approved comment missing from public listing: %+v", visible)
	}
}

func TestCommentCreateWithReviewDisabled(t *testing.T) {
	db := testutil.DB(t)
	svc := newCommentService(t, db, moderation.Config{ReviewLecturerComments: false})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")

	comment, err := svc.CreateForLecturer(ctx, lecturer.ID, CreateCommentInput{
		AuthorName: "student",
		Text:       "instant",
	})
	if err != nil {
		t.Fatalf("CreateForLecturer: %v", err)
	}
	if comment.ApproveStatus != moderation.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", comment.ApproveStatus)
	}

	visible, err := svc.ListForLecturer(ctx, lecturer.ID)
	if err != nil {
		t.Fatalf("ListForLecturer: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected comment to be publicly visible immediately")
	}
}

func TestCommentRequiresExistingParent(t *testing.T) {
	db := testutil.DB(t)
	svc := newCommentService(t, db, moderation.Config{ReviewLecturerComments: true, ReviewEventComments: true})
	ctx := context.Background()

	_, err := svc.CreateForLecturer(ctx, uuid.New(), CreateCommentInput{AuthorName: "a", Text: "b"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("missing lecturer: expected NotFound, got %v", err)
	}
	_, err = svc.CreateForEvent(ctx, uuid.New(), CreateCommentInput{AuthorName: "a", Text: "b"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("missing event: expected NotFound, got %v", err)
	}
}

func TestEventCommentDeclineSoftDeletes(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := newCommentService(t, db, moderation.Config{ReviewEventComments: true})
	ctx := context.Background()

	group := testutil.SeedGroup(t, ctx, db, "101")
	event := testutil.SeedEvent(t, ctx, db, "Physics",
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 11, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})

	comment, err := svc.CreateForEvent(ctx, event.ID, CreateCommentInput{AuthorName: "student", Text: "boring"})
	if err != nil {
		t.Fatalf("CreateForEvent: %v", err)
	}

	declined, err := svc.ReviewForEvent(authedCtx(), event.ID, comment.ID, moderation.VerdictDecline)
	if err != nil {
		t.Fatalf("ReviewForEvent: %v", err)
	}
	if declined.ApproveStatus != moderation.StatusDeclined || !declined.IsDeleted {
		t.Fatalf("expected DECLINED + deleted, got %+v", declined)
	}

	// declined content is gone from default reads but kept in history
	repo := repos.NewCommentEventRepo(db, log)
	if _, err := repo.GetForEvent(ctx, nil, event.ID, comment.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("declined comment readable: expected NotFound, got %v", err)
	}
	kept, err := repo.GetForEvent(ctx, nil, event.ID, comment.ID, true)
	if err != nil {
		t.Fatalf("GetForEvent include_deleted: %v", err)
	}
	if kept.ApproveStatus != moderation.StatusDeclined {
		t.Fatalf("history lost the DECLINED status: %+v", kept)
	}
}

func TestCommentCreateSetsTimestampsAndQueueOrder(t *testing.T) {
	db := testutil.DB(t)
	svc := newCommentService(t, db, moderation.Config{ReviewLecturerComments: true})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")

	var created []*types.CommentLecturer
	for _, text := range []string{"first", "second", "third"} {
		c, err := svc.CreateForLecturer(ctx, lecturer.ID, CreateCommentInput{AuthorName: "student", Text: text})
		if err != nil {
			t.Fatalf("CreateForLecturer(%q): %v", text, err)
		}
		if c.CreateTS.IsZero() || c.UpdateTS.IsZero() {
			t.Fatalf("comment %q stored without timestamps: %+v", text, c)
		}
		created = append(created, c)
		time.Sleep(2 * time.Millisecond)
	}

	// the moderation queue serves the oldest submission first
	queue, total, err := svc.UnreviewedForLecturers(authedCtx(), repos.ListParams{})
	if err != nil {
		t.Fatalf("UnreviewedForLecturers: %v", err)
	}
	if total != 3 || len(queue) != 3 {
		t.Fatalf("queue size = %d (total %d), want 3", len(queue), total)
	}
	for i, c := range queue {
		if c.ID != created[i].ID {
			t.Fatalf("queue[%d] = %q, want %q", i, c.Text, created[i].Text)
		}
	}

	newText := "first, edited"
	updated, err := svc.UpdateForLecturer(authedCtx(), lecturer.ID, created[0].ID, UpdateCommentInput{Text: &newText})
	if err != nil {
		t.Fatalf("UpdateForLecturer: %v", err)
	}
	if !updated.UpdateTS.After(updated.CreateTS) {
		t.Fatalf("edit did not advance update_ts: create=%v update=%v", updated.CreateTS, updated.UpdateTS)
	}
	if !updated.CreateTS.Equal(created[0].CreateTS) {
		t.Fatalf("edit changed create_ts: %v -> %v", created[0].CreateTS, updated.CreateTS)
	}
}

func TestEventDeleteCascadesToComments(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	commentSvc := newCommentService(t, db, moderation.Config{})
	eventSvc := NewEventService(db, log,
		repos.NewEventRepo(db, log),
		repos.NewRoomRepo(db, log),
		repos.NewGroupRepo(db, log),
		repos.NewLecturerRepo(db, log),
		repos.NewCommentEventRepo(db, log),
		nil)
	ctx := context.Background()

	group := testutil.SeedGroup(t, ctx, db, "101")
	event := testutil.SeedEvent(t, ctx, db, "Physics",
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 11, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})

	comment, err := commentSvc.CreateForEvent(ctx, event.ID, CreateCommentInput{AuthorName: "student", Text: "ok"})
	if err != nil {
		t.Fatalf("CreateForEvent: %v", err)
	}

	if err := eventSvc.Delete(authedCtx(), event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	repo := repos.NewCommentEventRepo(db, log)
	if _, err := repo.GetForEvent(ctx, nil, event.ID, comment.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("comment of a deleted event readable: expected NotFound, got %v", err)
	}
	kept, err := repo.GetForEvent(ctx, nil, event.ID, comment.ID, true)
	if err != nil {
		t.Fatalf("GetForEvent include_deleted: %v", err)
	}
	if !kept.IsDeleted {
		t.Fatalf("cascade did not mark the comment deleted: %+v", kept)
	}
}

func TestCommentMutationsRequireAuth(t *testing.T) {
	db := testutil.DB(t)
	svc := newCommentService(t, db, moderation.Config{ReviewLecturerComments: true})
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, db, "Petrov")
	comment := testutil.SeedLecturerComment(t, ctx, db, lecturer.ID, "text", moderation.StatusPending, time.Now().UTC())

	if _, err := svc.ReviewForLecturer(ctx, lecturer.ID, comment.ID, moderation.VerdictApprove); !apperr.IsUnauthorized(err) {
		t.Fatalf("anonymous review: expected Unauthorized, got %v", err)
	}
	if err := svc.DeleteForLecturer(ctx, lecturer.ID, comment.ID); !apperr.IsUnauthorized(err) {
		t.Fatalf("anonymous delete: expected Unauthorized, got %v", err)
	}
}
