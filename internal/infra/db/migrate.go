package db

import (
	"database/sql"
)

// MigrateUp creates the PostgreSQL schema for publishers.
// Publishers carry no unique constraint besides the primary key: seeding the
// same title twice yields two rows.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS publishers (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    endpoint    TEXT NOT NULL,
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    visible     BOOLEAN NOT NULL DEFAULT TRUE,
    city        TEXT NOT NULL,
    state       CHAR(2) NOT NULL,
    icon        TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    tags        JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// ListActive (WHERE active = TRUE)
		`CREATE INDEX IF NOT EXISTS idx_publishers_active ON publishers(active) WHERE active = TRUE`,
		// tag lookups from the Citygram side
		`CREATE INDEX IF NOT EXISTS idx_publishers_tags ON publishers USING gin(tags)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the publishers table and its indexes.
// Use with caution: this deletes every seeded publisher.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_publishers_tags`,
		`DROP INDEX IF EXISTS idx_publishers_active`,
		`DROP TABLE IF EXISTS publishers`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
