package model

import (
	"time"

	"github.com/google/uuid"
)

type CompetitionType string

const (
	CompetitionTypeLength        CompetitionType = "length"
	CompetitionTypeFrequency     CompetitionType = "frequency"
	CompetitionTypeQuestionnaire CompetitionType = "questionnaire"
)

type CompetitorType string

const (
	CompetitorTypeIndividual CompetitorType = "individual"
	CompetitorTypeTeam       CompetitorType = "team"
	CompetitorTypeCompany    CompetitorType = "company"
	CompetitorTypeFreeAgent  CompetitorType = "free_agent"
)

// Kind maps a competitor type to the entity shape it scores.
func (t CompetitorType) Kind() (CompetitorKind, bool) {
	switch t {
	case CompetitorTypeIndividual, CompetitorTypeFreeAgent:
		return CompetitorKindIndividual, true
	case CompetitorTypeTeam:
		return CompetitorKindTeam, true
	case CompetitorTypeCompany:
		return CompetitorKindCompany, true
	default:
		return "", false
	}
}

type Competition struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CampaignID              uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name                    string          `gorm:"size:255;not null"`
	Slug                    string          `gorm:"size:64;index"`
	CompetitionType         CompetitionType `gorm:"size:32;not null"`
	CompetitorType          CompetitorType  `gorm:"size:32;not null"`
	DateFrom                *time.Time      `gorm:"type:date"`
	DateTo                  *time.Time      `gorm:"type:date"`
	MinimumRidesBase        int             `gorm:"not null;default:0"`
	EntryAfterBeginningDays *int
	Sex                     *Sex       `gorm:"size:16"`
	CompanyID               *uuid.UUID `gorm:"type:uuid;index"`
	WithoutAdmission        bool       `gorm:"not null"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	CityIDs               []uuid.UUID `gorm:"-"`
	CommuteModeIDs        []uuid.UUID `gorm:"-"`
	TeamCompetitors       []Admission `gorm:"-"`
	IndividualCompetitors []Admission `gorm:"-"`
	CompanyCompetitors    []Admission `gorm:"-"`
}

type CompetitionCity struct {
	CompetitionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CityID        uuid.UUID `gorm:"type:uuid;primaryKey"`
}

type CompetitionCommuteMode struct {
	CompetitionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommuteModeID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// Admission is an explicit opt-in of a competitor into a competition.
type Admission struct {
	CompetitionID  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompetitorKind CompetitorKind `gorm:"size:16;primaryKey"`
	CompetitorID   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time
}

func (Admission) TableName() string {
	return "competition_admissions"
}

// QuestionnaireAnswer is written by the questionnaire subsystem.
type QuestionnaireAnswer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompetitionID    uuid.UUID `gorm:"type:uuid;index;not null"`
	UserAttendanceID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt        time.Time
}

// CompetitionResult rows are owned by the recalculation orchestrator.
// Result is nil for questionnaire marker rows.
type CompetitionResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompetitionID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_competition_result_competitor"`
	CompetitorKind CompetitorKind `gorm:"size:16;not null;uniqueIndex:uq_competition_result_competitor"`
	CompetitorID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_competition_result_competitor"`
	Result         *float64       `gorm:"type:double precision"`
	ResultDividend *float64       `gorm:"type:double precision"`
	ResultDivisor  *float64       `gorm:"type:double precision"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r CompetitionResult) Key() ResultKey {
	return ResultKey{Kind: r.CompetitorKind, ID: r.CompetitorID}
}

type ResultKey struct {
	Kind CompetitorKind
	ID   uuid.UUID
}
