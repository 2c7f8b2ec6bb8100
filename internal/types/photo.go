package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/moderation"
)

type Photo struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID    uuid.UUID         `gorm:"type:uuid;not null;index;column:lecturer_id" json:"lecturer_id"`
	Link          string            `gorm:"not null;uniqueIndex;column:link" json:"link"`
	ApproveStatus moderation.Status `gorm:"not null;column:approve_status" json:"approve_status"`
	IsDeleted     bool              `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

func (Photo) TableName() string {
	return "photo"
}

func (p *Photo) Kind() moderation.Kind                 { return moderation.KindPhoto }
func (p *Photo) ApprovalStatus() moderation.Status     { return p.ApproveStatus }
func (p *Photo) SetApprovalStatus(s moderation.Status) { p.ApproveStatus = s }
func (p *Photo) MarkDeleted()                          { p.IsDeleted = true }
