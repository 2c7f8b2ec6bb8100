package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
	"github.com/campusboard/timetable-backend/internal/types"
)

type CalendarCredentialRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, cred *types.CalendarCredential) error
	GetByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.CalendarCredential, error)
	DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error
}

type calendarCredentialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarCredentialRepo(db *gorm.DB, baseLog *logger.Logger) CalendarCredentialRepo {
	return &calendarCredentialRepo{db: db, log: baseLog.With("repo", "CalendarCredentialRepo")}
}

// Upsert keeps one credential per group: a second save replaces the stored
// token and calendar id.
func (r *calendarCredentialRepo) Upsert(ctx context.Context, tx *gorm.DB, cred *types.CalendarCredential) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"calendar_id", "token", "updated_at"}),
		}).
		Create(cred).Error
}

func (r *calendarCredentialRepo) GetByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) (*types.CalendarCredential, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var cred types.CalendarCredential
	err := transaction.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("calendar credential")
		}
		return nil, err
	}
	return &cred, nil
}

func (r *calendarCredentialRepo) DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&types.CalendarCredential{}).Error
}
