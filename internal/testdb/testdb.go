// Package testdb opens throwaway sqlite databases with the full schema and
// builds campaign fixtures for storage-backed tests.
package testdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nurpe/commute-results/internal/model"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "results.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Day returns midnight UTC of the given day in May 2024.
func Day(d int) time.Time {
	return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func Float(v float64) *float64 {
	return &v
}

type Fixture struct {
	DB       *gorm.DB
	Campaign model.Campaign
	t        *testing.T
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	f := &Fixture{DB: Open(t), t: t}
	f.Campaign = model.Campaign{ID: uuid.New(), Name: "Bike to work", Year: 2024}
	f.create(&f.Campaign)
	return f
}

func (f *Fixture) create(value interface{}) {
	f.t.Helper()
	if err := f.DB.Create(value).Error; err != nil {
		f.t.Fatalf("create %T: %v", value, err)
	}
}

func (f *Fixture) Phase(phaseType model.PhaseType, from, to time.Time) model.Phase {
	phase := model.Phase{ID: uuid.New(), CampaignID: f.Campaign.ID, PhaseType: phaseType, DateFrom: &from, DateTo: &to}
	f.create(&phase)
	return phase
}

func (f *Fixture) City(name string) model.City {
	city := model.City{ID: uuid.New(), Name: name, Slug: name}
	f.create(&city)
	return city
}

func (f *Fixture) Company(name string) model.Company {
	company := model.Company{ID: uuid.New(), Name: name}
	f.create(&company)
	return company
}

func (f *Fixture) Subsidiary(companyID, cityID uuid.UUID) model.Subsidiary {
	subsidiary := model.Subsidiary{ID: uuid.New(), CompanyID: companyID, CityID: cityID}
	f.create(&subsidiary)
	return subsidiary
}

func (f *Fixture) Team(subsidiaryID uuid.UUID) model.Team {
	team := model.Team{ID: uuid.New(), CampaignID: f.Campaign.ID, SubsidiaryID: subsidiaryID}
	f.create(&team)
	return team
}

// Individual creates an active individual; with a team the membership is approved.
func (f *Fixture) Individual(teamID *uuid.UUID, mutate ...func(*model.UserAttendance)) model.UserAttendance {
	individual := model.UserAttendance{
		ID:         uuid.New(),
		CampaignID: f.Campaign.ID,
		TeamID:     teamID,
		Active:     true,
		Sex:        model.SexUnknown,
	}
	if teamID != nil {
		individual.ApprovedForTeam = model.ApprovalApproved
	} else {
		individual.ApprovedForTeam = model.ApprovalUndecided
	}
	for _, fn := range mutate {
		fn(&individual)
	}
	f.create(&individual)
	return individual
}

func (f *Fixture) Mode(slug string, counts bool) model.CommuteMode {
	mode := model.CommuteMode{ID: uuid.New(), Slug: slug, Name: slug, Counts: counts, Eco: counts}
	f.create(&mode)
	return mode
}

func (f *Fixture) Trip(individualID uuid.UUID, date time.Time, direction model.Direction, modeID uuid.UUID, distance *float64) model.Trip {
	trip := model.Trip{
		ID:               uuid.New(),
		UserAttendanceID: individualID,
		Date:             date,
		Direction:        direction,
		CommuteModeID:    modeID,
		Distance:         distance,
	}
	f.create(&trip)
	return trip
}

// Competition stores c together with its city, mode and admission rows.
func (f *Fixture) Competition(c model.Competition) model.Competition {
	f.t.Helper()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CampaignID = f.Campaign.ID
	if c.Name == "" {
		c.Name = string(c.CompetitionType) + "-" + string(c.CompetitorType)
	}
	f.create(&c)

	for _, cityID := range c.CityIDs {
		f.create(&model.CompetitionCity{CompetitionID: c.ID, CityID: cityID})
	}
	for _, modeID := range c.CommuteModeIDs {
		f.create(&model.CompetitionCommuteMode{CompetitionID: c.ID, CommuteModeID: modeID})
	}
	admissions := append(append(append([]model.Admission{}, c.IndividualCompetitors...), c.TeamCompetitors...), c.CompanyCompetitors...)
	for _, admission := range admissions {
		admission.CompetitionID = c.ID
		f.create(&admission)
	}
	return c
}

func (f *Fixture) Answer(competitionID, individualID uuid.UUID) {
	f.create(&model.QuestionnaireAnswer{ID: uuid.New(), CompetitionID: competitionID, UserAttendanceID: individualID})
}

func Admit(kind model.CompetitorKind, ids ...uuid.UUID) []model.Admission {
	admissions := make([]model.Admission, 0, len(ids))
	for _, id := range ids {
		admissions = append(admissions, model.Admission{CompetitorKind: kind, CompetitorID: id})
	}
	return admissions
}
