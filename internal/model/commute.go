package model

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionToWork   Direction = "trip_to"
	DirectionFromWork Direction = "trip_from"
)

// CommuteMode.Counts decides whether trips in the mode are scored at all;
// Eco is informational.
type CommuteMode struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug   string    `gorm:"size:32;index"`
	Name   string    `gorm:"size:64"`
	Counts bool      `gorm:"not null"`
	Eco    bool      `gorm:"not null"`
}

type Trip struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserAttendanceID uuid.UUID `gorm:"type:uuid;index;not null"`
	Date             time.Time `gorm:"type:date;index;not null"`
	Direction        Direction `gorm:"size:16;not null"`
	CommuteModeID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Distance         *float64  `gorm:"type:double precision"` // km, nil when unmeasured
	DurationSeconds  *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
