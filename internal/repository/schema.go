package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS medications (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT       NOT NULL,
		medicine_name  VARCHAR(255) NOT NULL,
		dosage         VARCHAR(100),
		scheduled_time VARCHAR(20)  NOT NULL,
		status         VARCHAR(16)  NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'taken', 'missed'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_medications_user_id ON medications (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_medications_pending_time ON medications (scheduled_time) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS emergency_contacts (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT       NOT NULL,
		contact_name VARCHAR(255) NOT NULL,
		phone_number VARCHAR(32)  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_emergency_contacts_user_id ON emergency_contacts (user_id)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT      NOT NULL,
		rating     SMALLINT    NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
