package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
)

type CompetitorRepository struct {
	db *gorm.DB
}

func NewCompetitorRepository(db *gorm.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

// ListIndividuals returns active individuals with approved membership in a team matching the filter.
func (r *CompetitorRepository) ListIndividuals(ctx context.Context, f CompetitorFilter) ([]model.UserAttendance, error) {
	var rows []model.UserAttendance
	err := r.db.WithContext(ctx).
		Table("user_attendances AS ua").
		Select("DISTINCT ua.*").
		Joins("JOIN teams t ON t.id = ua.team_id").
		Joins("JOIN subsidiaries s ON s.id = t.subsidiary_id").
		Where("ua.campaign_id = ?", f.CampaignID).
		Scopes(memberScope, sexScope(f.Sex), subsidiaryScope(f)).
		Order("ua.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListFreeAgents returns active individuals without a team. A city or company
// restriction cannot be met without a team, so scoped filters yield nothing.
func (r *CompetitorRepository) ListFreeAgents(ctx context.Context, f CompetitorFilter) ([]model.UserAttendance, error) {
	if f.Scoped() {
		return []model.UserAttendance{}, nil
	}
	var rows []model.UserAttendance
	err := r.db.WithContext(ctx).
		Table("user_attendances AS ua").
		Where("ua.campaign_id = ? AND ua.team_id IS NULL AND ua.active = ?", f.CampaignID, true).
		Scopes(sexScope(f.Sex)).
		Order("ua.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CompetitorRepository) ListTeams(ctx context.Context, f CompetitorFilter) ([]model.Team, error) {
	var rows []model.Team
	err := r.db.WithContext(ctx).
		Table("teams AS t").
		Select("DISTINCT t.*").
		Joins("JOIN subsidiaries s ON s.id = t.subsidiary_id").
		Where("t.campaign_id = ?", f.CampaignID).
		Scopes(subsidiaryScope(f)).
		Order("t.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCompanies returns the owning company when the filter names one, otherwise every
// company with a team of the campaign in a matching subsidiary.
func (r *CompetitorRepository) ListCompanies(ctx context.Context, f CompetitorFilter) ([]model.Company, error) {
	if f.CompanyID != nil {
		var company model.Company
		err := r.db.WithContext(ctx).Where("id = ?", *f.CompanyID).Take(&company).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []model.Company{}, nil
			}
			return nil, err
		}
		return []model.Company{company}, nil
	}

	var rows []model.Company
	err := r.db.WithContext(ctx).
		Table("companies AS c").
		Select("DISTINCT c.*").
		Joins("JOIN subsidiaries s ON s.company_id = c.id").
		Joins("JOIN teams t ON t.subsidiary_id = s.id AND t.campaign_id = ?", f.CampaignID).
		Scopes(subsidiaryScope(f)).
		Order("c.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TeamMembers lists the current approved, active members of a team.
func (r *CompetitorRepository) TeamMembers(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("user_attendances AS ua").
		Where("ua.team_id = ?", teamID).
		Scopes(memberScope).
		Order("ua.id ASC").
		Pluck("ua.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CompanyMembers lists approved, active members of the company's teams in the campaign,
// restricted to the filter's cities.
func (r *CompetitorRepository) CompanyMembers(ctx context.Context, companyID uuid.UUID, f CompetitorFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("user_attendances AS ua").
		Joins("JOIN teams t ON t.id = ua.team_id").
		Joins("JOIN subsidiaries s ON s.id = t.subsidiary_id").
		Where("s.company_id = ? AND t.campaign_id = ?", companyID, f.CampaignID).
		Scopes(memberScope, subsidiaryScope(CompetitorFilter{CityIDs: f.CityIDs})).
		Order("ua.id ASC").
		Pluck("ua.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
