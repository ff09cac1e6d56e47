package model

import (
	"time"

	"github.com/google/uuid"
)

type CompetitorKind string

const (
	CompetitorKindIndividual CompetitorKind = "individual"
	CompetitorKindTeam       CompetitorKind = "team"
	CompetitorKindCompany    CompetitorKind = "company"
)

// Competitor is the capability shared by every scored entity.
type Competitor interface {
	CompetitorID() uuid.UUID
	CompetitorKind() CompetitorKind
}

type ApprovalStatus string

const (
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalUndecided ApprovalStatus = "undecided"
	ApprovalDenied    ApprovalStatus = "denied"
)

type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// UserAttendance is one user's participation in one campaign.
// RideCount, LengthTotal and AggregatesUpdatedAt are maintained by the
// denormalization pipeline and only read here.
type UserAttendance struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CampaignID          uuid.UUID      `gorm:"type:uuid;index;not null"`
	TeamID              *uuid.UUID     `gorm:"type:uuid;index"`
	ApprovedForTeam     ApprovalStatus `gorm:"size:16;not null;default:'undecided'"`
	Active              bool           `gorm:"not null"`
	Sex                 Sex            `gorm:"size:16;not null;default:'unknown'"`
	RideCount           int64          `gorm:"not null;default:0"`
	LengthTotal         float64        `gorm:"type:double precision;not null;default:0"`
	AggregatesUpdatedAt *time.Time
	CreatedAt           time.Time
}

func (u UserAttendance) CompetitorID() uuid.UUID        { return u.ID }
func (u UserAttendance) CompetitorKind() CompetitorKind { return CompetitorKindIndividual }

type Team struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CampaignID          uuid.UUID `gorm:"type:uuid;index;not null"`
	SubsidiaryID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Name                string    `gorm:"size:255"`
	MemberCount         int64     `gorm:"not null;default:0"`
	RideCount           int64     `gorm:"not null;default:0"`
	LengthTotal         float64   `gorm:"type:double precision;not null;default:0"`
	AggregatesUpdatedAt *time.Time
}

func (t Team) CompetitorID() uuid.UUID        { return t.ID }
func (t Team) CompetitorKind() CompetitorKind { return CompetitorKindTeam }

func (c Company) CompetitorID() uuid.UUID        { return c.ID }
func (c Company) CompetitorKind() CompetitorKind { return CompetitorKindCompany }
