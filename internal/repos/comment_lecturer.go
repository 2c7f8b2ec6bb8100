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

type CommentLecturerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.CommentLecturer) error
	// GetForLecturer scopes the lookup to the parent from the route; a
	// parent mismatch reads as NotFound.
	GetForLecturer(ctx context.Context, tx *gorm.DB, lecturerID, commentID uuid.UUID, includeDeleted bool) (*types.CommentLecturer, error)
	ListForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, status moderation.Status) ([]*types.CommentLecturer, error)
	ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.CommentLecturer, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// SoftDeleteForLecturer cascades a lecturer deletion to their comments.
	SoftDeleteForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID) error
}

type commentLecturerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentLecturerRepo(db *gorm.DB, baseLog *logger.Logger) CommentLecturerRepo {
	return &commentLecturerRepo{db: db, log: baseLog.With("repo", "CommentLecturerRepo")}
}

func (r *commentLecturerRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.CommentLecturer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(comment).Error
}

func (r *commentLecturerRepo) GetForLecturer(ctx context.Context, tx *gorm.DB, lecturerID, commentID uuid.UUID, includeDeleted bool) (*types.CommentLecturer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ? AND lecturer_id = ?", commentID, lecturerID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var comment types.CommentLecturer
	if err := q.First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentLecturerRepo) ListForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID, status moderation.Status) ([]*types.CommentLecturer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var comments []*types.CommentLecturer
	err := transaction.WithContext(ctx).
		Where("lecturer_id = ? AND approve_status = ? AND is_deleted = ?", lecturerID, status, false).
		Order("create_ts ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentLecturerRepo) ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.CommentLecturer, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.CommentLecturer{}).
		Where("approve_status = ? AND is_deleted = ?", moderation.StatusPending, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*types.CommentLecturer
	q = q.Order("create_ts ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentLecturerRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.CommentLecturer{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

func (r *commentLecturerRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true})
}

func (r *commentLecturerRepo) SoftDeleteForLecturer(ctx context.Context, tx *gorm.DB, lecturerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CommentLecturer{}).
		Where("lecturer_id = ? AND is_deleted = ?", lecturerID, false).
		Update("is_deleted", true).Error
}
