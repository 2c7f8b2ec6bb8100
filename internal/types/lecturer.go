package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Lecturer struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string     `gorm:"not null;column:first_name" json:"first_name"`
	MiddleName  string     `gorm:"column:middle_name" json:"middle_name"`
	LastName    string     `gorm:"not null;column:last_name" json:"last_name"`
	Description string     `gorm:"column:description" json:"description"`
	AvatarID    *uuid.UUID `gorm:"type:uuid;column:avatar_id" json:"avatar_id"`
	IsDeleted   bool       `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Lecturer) TableName() string {
	return "lecturer"
}

// DisplayName is the presenter string used in calendar exports.
func (l *Lecturer) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.LastName, l.FirstName, l.MiddleName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}
