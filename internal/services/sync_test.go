package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
	"github.com/campusboard/timetable-backend/internal/types"
)

type fakeQueue struct {
	items []uuid.UUID
}

func (q *fakeQueue) Enqueue(_ context.Context, groupID uuid.UUID) error {
	q.items = append(q.items, groupID)
	return nil
}

func (q *fakeQueue) Dequeue(_ context.Context, _ time.Duration) (uuid.UUID, bool, error) {
	if len(q.items) == 0 {
		return uuid.Nil, false, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true, nil
}

type fakeProvider struct {
	pushed  [][]CalendarEntry
	failUID string
	err     error
}

func (p *fakeProvider) AuthURL(state, _ string) string { return "https://example.com/auth?" + state }

func (p *fakeProvider) Exchange(_ context.Context, code, _ string) (string, error) {
	if code == "bad" {
		return "", errors.New("invalid code")
	}
	return `{"access_token":"tok"}`, nil
}

func (p *fakeProvider) Push(_ context.Context, _, _ string, entries []CalendarEntry) ([]PushResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.pushed = append(p.pushed, entries)
	results := make([]PushResult, 0, len(entries))
	for _, e := range entries {
		var err error
		if p.failUID == "*" || e.UID == p.failUID {
			err = errors.New("remote rejected entry")
		}
		results = append(results, PushResult{UID: e.UID, Err: err})
	}
	return results, nil
}

func newSyncFixture(t *testing.T) (SyncService, *fakeQueue, *fakeProvider, *types.Group) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	group := testutil.SeedGroup(t, ctx, db, "101")
	testutil.SeedEvent(t, ctx, db, "Physics",
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 11, 11, 30, 0, 0, time.UTC),
		[]*types.Group{group})

	export := newExportService(t, db, t.TempDir(), time.Hour,
		time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC))
	queue := &fakeQueue{}
	provider := &fakeProvider{}
	svc := NewSyncService(db, log,
		repos.NewGroupRepo(db, log),
		repos.NewCalendarCredentialRepo(db, log),
		export, provider, queue)
	return svc, queue, provider, group
}

func TestSaveCredentialQueuesInitialSync(t *testing.T) {
	svc, queue, _, group := newSyncFixture(t)

	err := svc.SaveCredential(authedCtx(), group.ID, "good-code", "https://app/callback", "")
	if err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	if len(queue.items) != 1 || queue.items[0] != group.ID {
		t.Fatalf("expected one queued sync for the group, got %v", queue.items)
	}
}

func TestSaveCredentialBadCodeIsUpstream(t *testing.T) {
	svc, queue, _, group := newSyncFixture(t)

	err := svc.SaveCredential(authedCtx(), group.ID, "bad", "https://app/callback", "")
	if !apperr.IsUpstream(err) {
		t.Fatalf("expected Upstream, got %v", err)
	}
	if len(queue.items) != 0 {
		t.Fatalf("failed exchange must not queue a sync")
	}
}

func TestNotifyGroupsOnlyQueuesLinkedGroups(t *testing.T) {
	svc, queue, _, group := newSyncFixture(t)

	if err := svc.SaveCredential(authedCtx(), group.ID, "good-code", "https://app/callback", ""); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	queue.items = nil

	unlinked := uuid.New()
	svc.NotifyGroups(context.Background(), []uuid.UUID{group.ID, unlinked})

	if len(queue.items) != 1 || queue.items[0] != group.ID {
		t.Fatalf("expected only the linked group queued, got %v", queue.items)
	}
}

func TestRequestSyncWithoutCredential(t *testing.T) {
	svc, _, _, group := newSyncFixture(t)

	if err := svc.RequestSync(authedCtx(), group.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFound without credential, got %v", err)
	}
}

func TestSyncGroupPushesEntries(t *testing.T) {
	svc, _, provider, group := newSyncFixture(t)

	if err := svc.SaveCredential(authedCtx(), group.ID, "good-code", "https://app/callback", ""); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	if err := svc.SyncGroup(context.Background(), group.ID); err != nil {
		t.Fatalf("SyncGroup: %v", err)
	}
	if len(provider.pushed) != 1 || len(provider.pushed[0]) != 1 {
		t.Fatalf("expected one pushed batch with one entry, got %v", provider.pushed)
	}
}

func TestSyncGroupToleratesPerEntryFailures(t *testing.T) {
	svc, _, provider, group := newSyncFixture(t)

	if err := svc.SaveCredential(authedCtx(), group.ID, "good-code", "https://app/callback", ""); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	provider.failUID = "*"
	if err := svc.SyncGroup(context.Background(), group.ID); err != nil {
		t.Fatalf("per-entry failure must not fail the sync: %v", err)
	}

	provider.err = errors.New("provider down")
	if err := svc.SyncGroup(context.Background(), group.ID); !apperr.IsUpstream(err) {
		t.Fatalf("whole-batch failure: expected Upstream, got %v", err)
	}
}

func TestSyncGroupWithoutCredentialIsNoop(t *testing.T) {
	svc, _, provider, group := newSyncFixture(t)

	if err := svc.SyncGroup(context.Background(), group.ID); err != nil {
		t.Fatalf("SyncGroup without credential: %v", err)
	}
	if len(provider.pushed) != 0 {
		t.Fatalf("nothing should be pushed without a credential")
	}
}
