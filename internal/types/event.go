package types

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"not null;column:name" json:"name"`
	StartTS   time.Time   `gorm:"not null;column:start_ts" json:"start_ts"`
	EndTS     time.Time   `gorm:"not null;column:end_ts" json:"end_ts"`
	IsDeleted bool        `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
	Rooms     []*Room     `gorm:"many2many:event_room" json:"rooms,omitempty"`
	Groups    []*Group    `gorm:"many2many:event_group" json:"groups,omitempty"`
	Lecturers []*Lecturer `gorm:"many2many:event_lecturer" json:"lecturers,omitempty"`
}

func (Event) TableName() string {
	return "event"
}
