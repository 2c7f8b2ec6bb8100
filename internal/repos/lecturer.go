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

type LecturerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lecturer *types.Lecturer) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Lecturer, error)
	List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Lecturer, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type lecturerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLecturerRepo(db *gorm.DB, baseLog *logger.Logger) LecturerRepo {
	return &lecturerRepo{db: db, log: baseLog.With("repo", "LecturerRepo")}
}

func (r *lecturerRepo) Create(ctx context.Context, tx *gorm.DB, lecturer *types.Lecturer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(lecturer).Error
}

func (r *lecturerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeDeleted bool) (*types.Lecturer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var lecturer types.Lecturer
	if err := q.First(&lecturer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("lecturer")
		}
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerRepo) List(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Lecturer, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Lecturer{})
	if !p.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if p.Search != "" {
		pattern := "%" + p.Search + "%"
		q = q.Where("first_name LIKE ? OR middle_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lecturers []*types.Lecturer
	q = q.Order("last_name ASC, first_name ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&lecturers).Error; err != nil {
		return nil, 0, err
	}
	return lecturers, total, nil
}

func (r *lecturerRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Lecturer{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("lecturer")
	}
	return nil
}

func (r *lecturerRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true, "avatar_id": nil})
}
