package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusboard/timetable-backend/internal/moderation"
)

type CommentLecturer struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	LecturerID    uuid.UUID         `gorm:"type:uuid;not null;index;column:lecturer_id" json:"lecturer_id"`
	AuthorName    string            `gorm:"not null;column:author_name" json:"author_name"`
	Text          string            `gorm:"not null;column:text" json:"text"`
	ApproveStatus moderation.Status `gorm:"not null;column:approve_status" json:"approve_status"`
	IsDeleted     bool              `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreateTS      time.Time         `gorm:"not null;column:create_ts" json:"create_ts"`
	UpdateTS      time.Time         `gorm:"not null;column:update_ts" json:"update_ts"`
}

func (CommentLecturer) TableName() string {
	return "comment_lecturer"
}

func (c *CommentLecturer) Kind() moderation.Kind                 { return moderation.KindLecturerComment }
func (c *CommentLecturer) ApprovalStatus() moderation.Status     { return c.ApproveStatus }
func (c *CommentLecturer) SetApprovalStatus(s moderation.Status) { c.ApproveStatus = s }
func (c *CommentLecturer) MarkDeleted()                          { c.IsDeleted = true }

type CommentEvent struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID         `gorm:"type:uuid;not null;index;column:event_id" json:"event_id"`
	AuthorName    string            `gorm:"not null;column:author_name" json:"author_name"`
	Text          string            `gorm:"not null;column:text" json:"text"`
	ApproveStatus moderation.Status `gorm:"not null;column:approve_status" json:"approve_status"`
	IsDeleted     bool              `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreateTS      time.Time         `gorm:"not null;column:create_ts" json:"create_ts"`
	UpdateTS      time.Time         `gorm:"not null;column:update_ts" json:"update_ts"`
}

func (CommentEvent) TableName() string {
	return "comment_event"
}

func (c *CommentEvent) Kind() moderation.Kind                 { return moderation.KindEventComment }
func (c *CommentEvent) ApprovalStatus() moderation.Status     { return c.ApproveStatus }
func (c *CommentEvent) SetApprovalStatus(s moderation.Status) { c.ApproveStatus = s }
func (c *CommentEvent) MarkDeleted()                          { c.IsDeleted = true }
