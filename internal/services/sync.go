package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

// SyncQueue is the transport between request handling and the background
// worker. The redis client satisfies it; tests use an in-process fake.
type SyncQueue interface {
	Enqueue(ctx context.Context, groupID uuid.UUID) error
	Dequeue(ctx context.Context, timeout time.Duration) (groupID uuid.UUID, ok bool, err error)
}

// SyncService connects groups to an external calendar account and keeps
// the remote calendar in step with the stored schedule.
type SyncService interface {
	AuthURL(ctx context.Context, groupID uuid.UUID, redirectURL string) (string, error)
	SaveCredential(ctx context.Context, groupID uuid.UUID, code, redirectURL, calendarID string) error
	RemoveCredential(ctx context.Context, groupID uuid.UUID) error
	RequestSync(ctx context.Context, groupID uuid.UUID) error
	// SyncGroup pushes the group's current window to the remote calendar.
	// Called from the worker, not from request handlers.
	SyncGroup(ctx context.Context, groupID uuid.UUID) error

	SyncNotifier
}

type syncService struct {
	db        *gorm.DB
	log       *logger.Logger
	groupRepo repos.GroupRepo
	credRepo  repos.CalendarCredentialRepo
	export    ExportService
	provider  CalendarProvider
	queue     SyncQueue
}

func NewSyncService(
	db *gorm.DB,
	baseLog *logger.Logger,
	groupRepo repos.GroupRepo,
	credRepo repos.CalendarCredentialRepo,
	export ExportService,
	provider CalendarProvider,
	queue SyncQueue,
) SyncService {
	return &syncService{
		db:        db,
		log:       baseLog.With("service", "SyncService"),
		groupRepo: groupRepo,
		credRepo:  credRepo,
		export:    export,
		provider:  provider,
		queue:     queue,
	}
}

func (s *syncService) AuthURL(ctx context.Context, groupID uuid.UUID, redirectURL string) (string, error) {
	if _, err := requireUser(ctx); err != nil {
		return "", err
	}
	if _, err := s.groupRepo.GetByID(ctx, nil, groupID, false); err != nil {
		return "", err
	}
	return s.provider.AuthURL(groupID.String(), redirectURL), nil
}

// SaveCredential exchanges the OAuth code and stores the token. The local
// write commits regardless of whether the follow-up sync can be queued;
// the stored credential is the source of truth.
func (s *syncService) SaveCredential(ctx context.Context, groupID uuid.UUID, code, redirectURL, calendarID string) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	if code == "" {
		return apperr.Validation("code", "required")
	}

	tokenJSON, err := s.provider.Exchange(ctx, code, redirectURL)
	if err != nil {
		return apperr.Upstream(err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.groupRepo.GetByID(ctx, tx, groupID, false); err != nil {
			return err
		}
		return s.credRepo.Upsert(ctx, tx, &types.CalendarCredential{
			ID:         uuid.New(),
			GroupID:    groupID,
			CalendarID: calendarID,
			Token:      tokenJSON,
		})
	})
	if err != nil {
		return err
	}

	if s.queue != nil {
		if qErr := s.queue.Enqueue(ctx, groupID); qErr != nil {
			s.log.Warn("Failed to queue initial calendar sync", "group_id", groupID, "error", qErr)
		}
	}
	return nil
}

func (s *syncService) RemoveCredential(ctx context.Context, groupID uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.credRepo.GetByGroupID(ctx, tx, groupID); err != nil {
			return err
		}
		return s.credRepo.DeleteByGroupID(ctx, tx, groupID)
	})
}

func (s *syncService) RequestSync(ctx context.Context, groupID uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}
	if s.queue == nil {
		return apperr.Upstream(errQueueUnavailable)
	}
	if _, err := s.credRepo.GetByGroupID(ctx, nil, groupID); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, groupID); err != nil {
		return apperr.Upstream(err)
	}
	return nil
}

// NotifyGroups is the fire-and-forget path used after schedule mutations.
// Groups without a stored credential are skipped silently; queue failures
// are logged and never surfaced to the mutating request.
func (s *syncService) NotifyGroups(ctx context.Context, groupIDs []uuid.UUID) {
	if s.queue == nil {
		return
	}
	for _, groupID := range groupIDs {
		if _, err := s.credRepo.GetByGroupID(ctx, nil, groupID); err != nil {
			if !apperr.IsNotFound(err) {
				s.log.Warn("Credential lookup failed", "group_id", groupID, "error", err)
			}
			continue
		}
		if err := s.queue.Enqueue(ctx, groupID); err != nil {
			s.log.Warn("Failed to queue calendar sync", "group_id", groupID, "error", err)
		}
	}
}

func (s *syncService) SyncGroup(ctx context.Context, groupID uuid.UUID) error {
	cred, err := s.credRepo.GetByGroupID(ctx, nil, groupID)
	if err != nil {
		if apperr.IsNotFound(err) {
			// credential was removed after the item was queued
			return nil
		}
		return err
	}

	entries, err := s.export.Entries(ctx, groupID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	results, err := s.provider.Push(ctx, cred.Token, cred.CalendarID, entries)
	if err != nil {
		return apperr.Upstream(err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		s.log.Warn("Calendar sync finished with failures",
			"group_id", groupID, "pushed", len(results)-failed, "failed", failed)
	} else {
		s.log.Info("Calendar sync finished", "group_id", groupID, "pushed", len(results))
	}
	return nil
}

var errQueueUnavailable = errors.New("sync queue is not configured")

// SyncWorker drains the queue in the background. Retries are bounded;
// after the last attempt the item is dropped with a log line, since the
// next schedule mutation will queue the group again.
type SyncWorker struct {
	log     *logger.Logger
	queue   SyncQueue
	service SyncService

	pollTimeout time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

func NewSyncWorker(baseLog *logger.Logger, queue SyncQueue, service SyncService) *SyncWorker {
	return &SyncWorker{
		log:         baseLog.With("component", "SyncWorker"),
		queue:       queue,
		service:     service,
		pollTimeout: 5 * time.Second,
		maxAttempts: 3,
		retryDelay:  2 * time.Second,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SyncWorker) run(ctx context.Context) {
	w.log.Info("Sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Sync worker stopped")
			return
		default:
		}

		groupID, ok, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("Queue read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryDelay):
			}
			continue
		}
		if !ok {
			continue
		}
		w.process(ctx, groupID)
	}
}

func (w *SyncWorker) process(ctx context.Context, groupID uuid.UUID) {
	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		lastErr = w.service.SyncGroup(ctx, groupID)
		if lastErr == nil {
			return
		}
		if !apperr.IsUpstream(lastErr) {
			break
		}
		w.log.Warn("Sync attempt failed", "group_id", groupID, "attempt", attempt, "error", lastErr)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * w.retryDelay):
		}
	}
	w.log.Error("Giving up on calendar sync", "group_id", groupID, "error", lastErr)
}
