package types

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionNorth Direction = "North"
	DirectionSouth Direction = "South"
)

type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_room_name_building;column:name" json:"name"`
	Direction   Direction `gorm:"not null;column:direction" json:"direction"`
	Building    string    `gorm:"not null;uniqueIndex:idx_room_name_building;column:building" json:"building"`
	BuildingURL string    `gorm:"column:building_url" json:"building_url"`
	IsDeleted   bool      `gorm:"not null;default:false;column:is_deleted" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Room) TableName() string {
	return "room"
}
