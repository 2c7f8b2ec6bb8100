package repos

import (
	"context"
	"testing"
	"time"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
)

func TestCommentLecturerRepoOwnershipScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCommentLecturerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	stranger := testutil.SeedLecturer(t, ctx, tx, "Sidorov")
	comment := testutil.SeedLecturerComment(t, ctx, tx, owner.ID, "great lectures",
		moderation.StatusApproved, time.Now())

	got, err := repo.GetForLecturer(ctx, tx, owner.ID, comment.ID, false)
	if err != nil {
		t.Fatalf("GetForLecturer: %v", err)
	}
	if got.Text != "great lectures" {
		t.Fatalf("unexpected comment: %+v", got)
	}

	// The comment exists but belongs to another lecturer: NotFound, so
	// ids cannot be guessed across parents.
	if _, err := repo.GetForLecturer(ctx, tx, stranger.ID, comment.ID, false); !apperr.IsNotFound(err) {
		t.Fatalf("wrong parent: expected NotFound, got %v", err)
	}
}

func TestCommentLecturerRepoListByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCommentLecturerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	now := time.Now()
	testutil.SeedLecturerComment(t, ctx, tx, lecturer.ID, "approved", moderation.StatusApproved, now)
	testutil.SeedLecturerComment(t, ctx, tx, lecturer.ID, "pending", moderation.StatusPending, now)

	approved, err := repo.ListForLecturer(ctx, tx, lecturer.ID, moderation.StatusApproved)
	if err != nil {
		t.Fatalf("ListForLecturer approved: %v", err)
	}
	if len(approved) != 1 || approved[0].Text != "approved" {
		t.Fatalf("expected only approved comments, got %+v", approved)
	}
}

func TestCommentLecturerRepoUnreviewedQueueIsFIFO(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCommentLecturerRepo(db, testutil.Logger(t))
	ctx := context.Background()

	lecturer := testutil.SeedLecturer(t, ctx, tx, "Petrov")
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	testutil.SeedLecturerComment(t, ctx, tx, lecturer.ID, "second", moderation.StatusPending, base.Add(time.Hour))
	testutil.SeedLecturerComment(t, ctx, tx, lecturer.ID, "first", moderation.StatusPending, base)
	testutil.SeedLecturerComment(t, ctx, tx, lecturer.ID, "visible", moderation.StatusApproved, base)

	pending, total, err := repo.ListUnreviewed(ctx, tx, ListParams{})
	if err != nil {
		t.Fatalf("ListUnreviewed: %v", err)
	}
	if total != 2 || len(pending) != 2 {
		t.Fatalf("expected 2 pending comments, got total=%d len=%d", total, len(pending))
	}
	if pending[0].Text != "first" || pending[1].Text != "second" {
		t.Fatalf("expected oldest-first ordering, got %q then %q", pending[0].Text, pending[1].Text)
	}
}
