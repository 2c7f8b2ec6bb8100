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

type CommentEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.CommentEvent) error
	GetForEvent(ctx context.Context, tx *gorm.DB, eventID, commentID uuid.UUID, includeDeleted bool) (*types.CommentEvent, error)
	ListForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, status moderation.Status) ([]*types.CommentEvent, error)
	ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.CommentEvent, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// SoftDeleteForEvent cascades an event deletion to its comments.
	SoftDeleteForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
}

type commentEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentEventRepo(db *gorm.DB, baseLog *logger.Logger) CommentEventRepo {
	return &commentEventRepo{db: db, log: baseLog.With("repo", "CommentEventRepo")}
}

func (r *commentEventRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.CommentEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(comment).Error
}

func (r *commentEventRepo) GetForEvent(ctx context.Context, tx *gorm.DB, eventID, commentID uuid.UUID, includeDeleted bool) (*types.CommentEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ? AND event_id = ?", commentID, eventID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var comment types.CommentEvent
	if err := q.First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentEventRepo) ListForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, status moderation.Status) ([]*types.CommentEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var comments []*types.CommentEvent
	err := transaction.WithContext(ctx).
		Where("event_id = ? AND approve_status = ? AND is_deleted = ?", eventID, status, false).
		Order("create_ts ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentEventRepo) ListUnreviewed(ctx context.Context, tx *gorm.DB, p ListParams) ([]*types.CommentEvent, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.CommentEvent{}).
		Where("approve_status = ? AND is_deleted = ?", moderation.StatusPending, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*types.CommentEvent
	q = q.Order("create_ts ASC")
	if p.Limit > 0 {
		q = q.Limit(p.Limit).Offset(p.Offset)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentEventRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.CommentEvent{}).
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

func (r *commentEventRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"is_deleted": true})
}

func (r *commentEventRepo) SoftDeleteForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CommentEvent{}).
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Update("is_deleted", true).Error
}
