package types

import (
	"time"

	"github.com/google/uuid"
)

// CalendarCredential links a group to an external calendar account. Token
// holds the serialized OAuth token; CalendarID is the remote calendar the
// group's schedule is pushed into ("primary" when empty).
type CalendarCredential struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:group_id" json:"group_id"`
	CalendarID string    `gorm:"column:calendar_id" json:"calendar_id"`
	Token      string    `gorm:"not null;column:token" json:"-"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (CalendarCredential) TableName() string {
	return "calendar_credential"
}
