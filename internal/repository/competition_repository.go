package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
)

type CompetitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

// GetCompetition loads a competition together with its city and mode
// restrictions and its explicit admission sets.
func (r *CompetitionRepository) GetCompetition(ctx context.Context, id uuid.UUID) (*model.Competition, error) {
	db := r.db.WithContext(ctx)

	var competition model.Competition
	if err := db.Where("id = ?", id).Take(&competition).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.CompetitionCity{}).
		Where("competition_id = ?", id).
		Order("city_id ASC").
		Pluck("city_id", &competition.CityIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CompetitionCommuteMode{}).
		Where("competition_id = ?", id).
		Order("commute_mode_id ASC").
		Pluck("commute_mode_id", &competition.CommuteModeIDs).Error; err != nil {
		return nil, err
	}

	var admissions []model.Admission
	if err := db.Where("competition_id = ?", id).
		Order("competitor_id ASC").
		Find(&admissions).Error; err != nil {
		return nil, err
	}
	for _, admission := range admissions {
		switch admission.CompetitorKind {
		case model.CompetitorKindIndividual:
			competition.IndividualCompetitors = append(competition.IndividualCompetitors, admission)
		case model.CompetitorKindTeam:
			competition.TeamCompetitors = append(competition.TeamCompetitors, admission)
		case model.CompetitorKindCompany:
			competition.CompanyCompetitors = append(competition.CompanyCompetitors, admission)
		}
	}

	return &competition, nil
}

func (r *CompetitionRepository) ListCompetitionIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Competition{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetPhase returns the campaign phase of the given type, nil when the campaign has none.
func (r *CompetitionRepository) GetPhase(ctx context.Context, campaignID uuid.UUID, phaseType model.PhaseType) (*model.Phase, error) {
	var phase model.Phase
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND phase_type = ?", campaignID, phaseType).
		Take(&phase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &phase, nil
}

// CountedModeIDs lists the commute modes whose trips count by default.
func (r *CompetitionRepository) CountedModeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.CommuteMode{}).
		Where("counts = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountAnswers counts recorded questionnaire answers of the given individuals.
func (r *CompetitionRepository) CountAnswers(ctx context.Context, competitionID uuid.UUID, individualIDs []uuid.UUID) (int64, error) {
	if len(individualIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.QuestionnaireAnswer{}).
		Where("competition_id = ? AND user_attendance_id IN ?", competitionID, individualIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
