package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createSavedSearchesTable creates the saved_searches table with indexes on
// the session and creation time (the two access paths: recent-per-session
// and prune-by-age).
func createSavedSearchesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_saved_searches",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS saved_searches (
					id UUID PRIMARY KEY,
					session_id VARCHAR(100) NOT NULL,
					query_params JSONB NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_saved_searches_session_id ON saved_searches(session_id);",
				"CREATE INDEX IF NOT EXISTS idx_saved_searches_created_at ON saved_searches(created_at);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS saved_searches;").Error
		},
	}
}
