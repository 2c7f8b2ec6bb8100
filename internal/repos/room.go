package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/types"
)

type RoomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, room *types.Room) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Room, error)
	List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Room, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NameExists(ctx context.Context, tx *gorm.DB, name, building string) (bool, error)
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: baseLog.With("repo", "RoomRepo")}
}

func (r *roomRepo) Create(ctx context.Context, tx *gorm.DB, room *types.Room) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var room types.Room
	if err := q.First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("room")
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Room, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Room{})
	if !p.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if p.Search != "" {
		pattern := "%" + p.Search + "%"
		q = q.Where("name LIKE ? OR building LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []*types.Room
	q = q.Order("building ASC, name ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *roomRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Room{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("room")
	}
	return nil
}

func (r *roomRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true})
}

func (r *roomRepo) NameExists(ctx context.Context, tx *gorm.DB, name, building string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Room{}).
		Where("name = ? AND building = ? AND is_deleted = ?", name, building, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
