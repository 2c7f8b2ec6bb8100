package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/types"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.Event) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Event, error)
	List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Event, int64, error)
	ListForGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, from, to time.Time) ([]*types.Event, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ReplaceRooms(ctx context.Context, tx *gorm.DB, event *types.Event, rooms []*types.Room) error
	ReplaceGroups(ctx context.Context, tx *gorm.DB, event *types.Event, groups []*types.Group) error
	ReplaceLecturers(ctx context.Context, tx *gorm.DB, event *types.Event, lecturers []*types.Lecturer) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Preload("Rooms").
		Preload("Groups").
		Preload("Lecturers").
		Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var event types.Event
	if err := q.First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Event, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Event{})
	if !p.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if p.Search != "" {
		q = q.Where("name LIKE ?", "%"+p.Search+"%")
	}
	if p.From != nil {
		q = q.Where("start_ts >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where("start_ts < ?", *p.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*types.Event
	q = q.Preload("Rooms").Preload("Groups").Preload("Lecturers").Order("start_ts ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListForGroup returns the group's undeleted events with start_ts in
// [from, to), ordered by start time, with rooms and lecturers preloaded.
func (r *eventRepo) ListForGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, from, to time.Time) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var events []*types.Event
	err := transaction.WithContext(ctx).
		Preload("Rooms").
		Preload("Lecturers").
		Joins("JOIN event_group ON event_group.event_id = event.id").
		Where("event_group.group_id = ?", groupID).
		Where("event.is_deleted = ?", false).
		Where("event.start_ts >= ? AND event.start_ts < ?", from, to).
		Order("event.start_ts ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

func (r *eventRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true})
}

func (r *eventRepo) ReplaceRooms(ctx context.Context, tx *gorm.DB, event *types.Event, rooms []*types.Room) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(event).Association("Rooms").Replace(rooms)
}

func (r *eventRepo) ReplaceGroups(ctx context.Context, tx *gorm.DB, event *types.Event, groups []*types.Group) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(event).Association("Groups").Replace(groups)
}

func (r *eventRepo) ReplaceLecturers(ctx context.Context, tx *gorm.DB, event *types.Event, lecturers []*types.Lecturer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(event).Association("Lecturers").Replace(lecturers)
}
