package model

import (
	"time"

	"github.com/google/uuid"
)

type PhaseType string

const (
	PhaseTypeRegistration PhaseType = "registration"
	PhaseTypeCompetition  PhaseType = "competition"
	PhaseTypeEntryEnabled PhaseType = "entry_enabled"
)

type Campaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	Year      int       `gorm:"not null"`
	CreatedAt time.Time
}

// Phase is a named stage of a campaign. Either bound may be open.
type Phase struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CampaignID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PhaseType  PhaseType  `gorm:"size:32;not null"`
	DateFrom   *time.Time `gorm:"type:date"`
	DateTo     *time.Time `gorm:"type:date"`
}
