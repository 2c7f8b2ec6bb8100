package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/moderation"
	"github.com/campusboard/timetable-backend/internal/types"
)

type PhotoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, photo *types.Photo) error
	// GetForLecturer loads a photo by id scoped to its owning lecturer;
	// an ownership mismatch is indistinguishable from a missing row.
	GetForLecturer(ctx context.Context, tx *gorm.DB, lecturerID, photoID uuid.UUID, includeDeleted bool) (*types.Photo, error)
	ListForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, status moderation.Status) ([]*types.Photo, error)
	ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Photo, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// SoftDeleteForLecturer marks every live photo of the lecturer as
	// deleted; removing a lecturer takes their photos along.
	SoftDeleteForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID) error
	LinkExists(ctx context.Context, tx *gorm.DB, link string) (bool, error)
}

type photoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhotoRepo(db *gorm.DB, baseLog *logger.Logger) PhotoRepo {
	return &photoRepo{db: db, log: baseLog.With("repo", "PhotoRepo")}
}

func (r *photoRepo) Create(ctx context.Context, tx *gorm.DB, photo *types.Photo) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(photo).Error
}

func (r *photoRepo) GetForLecturer(ctx context.Context, tx *gorm.DB, lecturerID, photoID uuid.UUID, includeDeleted bool) (*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ? AND lecturer_id = ?", photoID, lecturerID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var photo types.Photo
	if err := q.First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("photo")
		}
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepo) ListForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, status moderation.Status) ([]*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var photos []*types.Photo
	err := transaction.WithContext(ctx).
		Where("lecturer_id = ? AND approve_status = ? AND is_deleted = ?", lecturerID, status, false).
		Order("created_at ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// ListUnreviewed is the moderation queue: PENDING photos oldest first.
func (r *photoRepo) ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.Photo, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("approve_status = ? AND is_deleted = ?", moderation.StatusPending, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var photos []*types.Photo
	q = q.Order("created_at ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&photos).Error; err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

func (r *photoRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("photo")
	}
	return nil
}

func (r *photoRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true})
}

func (r *photoRepo) SoftDeleteForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("lecturer_id = ? AND is_deleted = ?", lecturerID, false).
		Update("is_deleted", true).Error
}

func (r *photoRepo) LinkExists(ctx context.Context, tx *gorm.DB, link string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("link = ?", link).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
