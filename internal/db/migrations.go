package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Only competition_results is owned by this service; the tables it references
// are managed by the registration and trip-entry systems.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS competition_results (
		id UUID PRIMARY KEY,
		competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
		competitor_kind VARCHAR(16) NOT NULL,
		competitor_id UUID NOT NULL,
		result DOUBLE PRECISION,
		result_dividend DOUBLE PRECISION,
		result_divisor DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'competition_results' AND column_name = 'result_divisor') THEN
			ALTER TABLE competition_results ADD COLUMN result_divisor DOUBLE PRECISION;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'competition_results' AND column_name = 'result_dividend') THEN
			ALTER TABLE competition_results ADD COLUMN result_dividend DOUBLE PRECISION;
		END IF;
	END
	$$;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_competition_result_competitor ON competition_results (competition_id, competitor_kind, competitor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_competition_results_ranking ON competition_results (competition_id, result DESC NULLS LAST, competitor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_user_attendance_date ON trips (user_attendance_id, date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
