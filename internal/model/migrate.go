package model

import "gorm.io/gorm"

// AutoMigrate creates every table the engine reads or writes.
// Production deployments only own competition_results; the rest exist for tests and local setups.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Campaign{},
		&Phase{},
		&City{},
		&Company{},
		&Subsidiary{},
		&Team{},
		&UserAttendance{},
		&CommuteMode{},
		&Trip{},
		&Competition{},
		&CompetitionCity{},
		&CompetitionCommuteMode{},
		&Admission{},
		&QuestionnaireAnswer{},
		&CompetitionResult{},
	)
}
