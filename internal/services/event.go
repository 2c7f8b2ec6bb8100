package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/types"
)

type CreateEventInput struct {
	Name        string
	StartTS     time.Time
	EndTS       time.Time
	RoomIDs     []uuid.UUID
	GroupIDs    []uuid.UUID
	LecturerIDs []uuid.UUID
}

// UpdateEventInput leaves an association untouched when its slice is nil;
// an empty non-nil slice clears it.
type UpdateEventInput struct {
	Name        *string
	StartTS     *time.Time
	EndTS       *time.Time
	RoomIDs     []uuid.UUID
	GroupIDs    []uuid.UUID
	LecturerIDs []uuid.UUID
}

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*types.Event, error)
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Event, error)
	List(ctx context.Context, p repos.ListParams) ([]*types.Event, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SyncNotifier is how mutating services tell the background pipeline that a
// group's calendar is stale. Nil means no external calendar is configured.
type SyncNotifier interface {
	NotifyGroups(ctx context.Context, groupIDs []uuid.UUID)
}

type eventService struct {
	db           *gorm.DB
	log          *logger.Logger
	eventRepo    repos.EventRepo
	roomRepo     repos.RoomRepo
	groupRepo    repos.GroupRepo
	lecturerRepo repos.LecturerRepo
	commentRepo  repos.CommentEventRepo
	notifier     SyncNotifier
}

func NewEventService(
	db *gorm.DB,
	baseLog *logger.Logger,
	eventRepo repos.EventRepo,
	roomRepo repos.RoomRepo,
	groupRepo repos.GroupRepo,
	lecturerRepo repos.LecturerRepo,
	commentRepo repos.CommentEventRepo,
	notifier SyncNotifier,
) EventService {
	return &eventService{
		db:           db,
		log:          baseLog.With("service", "EventService"),
		eventRepo:    eventRepo,
		roomRepo:     roomRepo,
		groupRepo:    groupRepo,
		lecturerRepo: lecturerRepo,
		commentRepo:  commentRepo,
		notifier:     notifier,
	}
}

func (s *eventService) notify(ctx context.Context, groupIDs []uuid.UUID) {
	if s.notifier == nil || len(groupIDs) == 0 {
		return
	}
	s.notifier.NotifyGroups(ctx, groupIDs)
}

func (s *eventService) resolveRooms(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Room, error) {
	rooms := make([]*types.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.roomRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *eventService) resolveGroups(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Group, error) {
	groups := make([]*types.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.groupRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *eventService) resolveLecturers(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lecturer, error) {
	lecturers := make([]*types.Lecturer, 0, len(ids))
	for _, id := range ids {
		lecturer, err := s.lecturerRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return nil, err
		}
		lecturers = append(lecturers, lecturer)
	}
	return lecturers, nil
}

func groupIDsOf(event *types.Event) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(event.Groups))
	for _, g := range event.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*types.Event, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name", "required")
	}
	if in.StartTS.IsZero() || in.EndTS.IsZero() {
		return nil, apperr.Validation("start_ts", "start and end are required")
	}
	if !in.EndTS.After(in.StartTS) {
		return nil, apperr.Validation("end_ts", "must be after start_ts")
	}

	event := &types.Event{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(in.Name),
		StartTS: in.StartTS,
		EndTS:   in.EndTS,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms, err := s.resolveRooms(ctx, tx, in.RoomIDs)
		if err != nil {
			return err
		}
		groups, err := s.resolveGroups(ctx, tx, in.GroupIDs)
		if err != nil {
			return err
		}
		lecturers, err := s.resolveLecturers(ctx, tx, in.LecturerIDs)
		if err != nil {
			return err
		}
		event.Rooms = rooms
		event.Groups = groups
		event.Lecturers = lecturers
		return s.eventRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, groupIDsOf(event))
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*types.Event, error) {
	return s.eventRepo.GetByID(ctx, nil, id, includeDeleted)
}

func (s *eventService) List(ctx context.Context, p repos.ListParams) ([]*types.Event, int64, error) {
	return s.eventRepo.List(ctx, nil, p)
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Validation("name", "must not be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.StartTS != nil {
		updates["start_ts"] = *in.StartTS
	}
	if in.EndTS != nil {
		updates["end_ts"] = *in.EndTS
	}

	var updated *types.Event
	var staleGroups []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.eventRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}

		startTS := current.StartTS
		endTS := current.EndTS
		if in.StartTS != nil {
			startTS = *in.StartTS
		}
		if in.EndTS != nil {
			endTS = *in.EndTS
		}
		if !endTS.After(startTS) {
			return apperr.Validation("end_ts", "must be after start_ts")
		}

		// groups attached before the update are stale too when the set changes
		staleGroups = groupIDsOf(current)

		if len(updates) > 0 {
			if err := s.eventRepo.Update(ctx, tx, id, updates); err != nil {
				return err
			}
		}
		if in.RoomIDs != nil {
			rooms, err := s.resolveRooms(ctx, tx, in.RoomIDs)
			if err != nil {
				return err
			}
			if err := s.eventRepo.ReplaceRooms(ctx, tx, current, rooms); err != nil {
				return err
			}
		}
		if in.GroupIDs != nil {
			groups, err := s.resolveGroups(ctx, tx, in.GroupIDs)
			if err != nil {
				return err
			}
			if err := s.eventRepo.ReplaceGroups(ctx, tx, current, groups); err != nil {
				return err
			}
			for _, g := range groups {
				staleGroups = append(staleGroups, g.ID)
			}
		}
		if in.LecturerIDs != nil {
			lecturers, err := s.resolveLecturers(ctx, tx, in.LecturerIDs)
			if err != nil {
				return err
			}
			if err := s.eventRepo.ReplaceLecturers(ctx, tx, current, lecturers); err != nil {
				return err
			}
		}

		event, err := s.eventRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, staleGroups)
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	var staleGroups []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.eventRepo.GetByID(ctx, tx, id, false)
		if err != nil {
			return err
		}
		staleGroups = groupIDsOf(event)
		if err := s.eventRepo.SoftDelete(ctx, tx, id); err != nil {
			return err
		}
		// dependent comments go with the event
		return s.commentRepo.SoftDeleteForEvent(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, staleGroups)
	return nil
}
