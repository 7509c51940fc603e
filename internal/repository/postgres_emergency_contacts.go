package repository

import (
	"context"
	"database/sql"

	"silvercare/internal/domain"
)

type PostgresEmergencyContactsRepository struct {
	db *sql.DB
}

func NewPostgresEmergencyContactsRepository(db *sql.DB) *PostgresEmergencyContactsRepository {
	return &PostgresEmergencyContactsRepository{db: db}
}

var _ EmergencyContactsRepository = (*PostgresEmergencyContactsRepository)(nil)

func (r *PostgresEmergencyContactsRepository) ListByUser(ctx context.Context, userID int64) ([]domain.EmergencyContact, error) {
	query := `
		SELECT user_id, contact_name, phone_number
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.StoreUnavailable("failed to list emergency contacts", err)
	}
	defer rows.Close()

	out := []domain.EmergencyContact{}
	for rows.Next() {
		var c domain.EmergencyContact
		if err := rows.Scan(&c.UserID, &c.ContactName, &c.PhoneNumber); err != nil {
			return nil, domain.StoreUnavailable("failed to scan emergency contact", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreUnavailable("failed to iterate emergency contacts", err)
	}
	return out, nil
}
