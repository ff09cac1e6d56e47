package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/commute-results/internal/model"
)

// CompetitorFilter carries the eligibility predicates of a competition.
type CompetitorFilter struct {
	CampaignID uuid.UUID
	CityIDs    []uuid.UUID
	Sex        *model.Sex
	CompanyID  *uuid.UUID
}

// Scoped reports whether the filter restricts by organization.
// Such filters can only be evaluated through a team.
func (f CompetitorFilter) Scoped() bool {
	return len(f.CityIDs) > 0 || f.CompanyID != nil
}

func FilterForCompetition(c *model.Competition) CompetitorFilter {
	return CompetitorFilter{
		CampaignID: c.CampaignID,
		CityIDs:    c.CityIDs,
		Sex:        c.Sex,
		CompanyID:  c.CompanyID,
	}
}

// subsidiaryScope narrows a query already joined to subsidiaries as "s".
func subsidiaryScope(f CompetitorFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.CityIDs) > 0 {
			db = db.Where("s.city_id IN ?", f.CityIDs)
		}
		if f.CompanyID != nil {
			db = db.Where("s.company_id = ?", *f.CompanyID)
		}
		return db
	}
}

// memberScope keeps campaign-active individuals with approved team membership.
func memberScope(db *gorm.DB) *gorm.DB {
	return db.Where("ua.active = ? AND ua.approved_for_team = ?", true, model.ApprovalApproved)
}

func sexScope(sex *model.Sex) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sex == nil || *sex == "" {
			return db
		}
		return db.Where("ua.sex = ?", *sex)
	}
}

// tripScope restricts trips to a set of individuals, an inclusive date range and commute modes.
func tripScope(individualIDs []uuid.UUID, from, to time.Time, modeIDs []uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("user_attendance_id IN ?", individualIDs).
			Where("date >= ? AND date <= ?", from, to).
			Where("commute_mode_id IN ?", modeIDs)
	}
}
