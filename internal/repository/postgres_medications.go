package repository

import (
	"context"
	"database/sql"
	"errors"

	"silvercare/internal/domain"
)

// PostgresMedicationsRepository implements MedicationsRepository on the medications table.
type PostgresMedicationsRepository struct {
	db *sql.DB
}

func NewPostgresMedicationsRepository(db *sql.DB) *PostgresMedicationsRepository {
	return &PostgresMedicationsRepository{db: db}
}

var _ MedicationsRepository = (*PostgresMedicationsRepository)(nil)

const medicationColumns = `id, user_id, medicine_name, dosage, scheduled_time, status`

func (r *PostgresMedicationsRepository) ListByUser(ctx context.Context, userID int64) ([]domain.MedicationRecord, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.StoreUnavailable("failed to list medications", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

func (r *PostgresMedicationsRepository) Get(ctx context.Context, id int64) (*domain.MedicationRecord, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE id = $1
	`
	rec, err := scanMedication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("medication not found", err)
		}
		return nil, domain.StoreUnavailable("failed to get medication", err)
	}
	return rec, nil
}

func (r *PostgresMedicationsRepository) Create(ctx context.Context, rec *domain.MedicationRecord) (*domain.MedicationRecord, error) {
	if rec == nil {
		return nil, domain.Validation("medication record is required")
	}
	query := `
		INSERT INTO medications (user_id, medicine_name, dosage, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	out := *rec
	if err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.MedicineName, rec.Dosage, rec.ScheduledTime, string(rec.Status),
	).Scan(&out.ID); err != nil {
		return nil, domain.StoreUnavailable("failed to create medication", err)
	}
	return &out, nil
}

func (r *PostgresMedicationsRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.MedicationStatus) (*domain.MedicationRecord, error) {
	query := `
		UPDATE medications
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING ` + medicationColumns
	rec, err := scanMedication(r.db.QueryRowContext(ctx, query, string(to), id, string(from)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("medication not found", err)
		}
		return nil, domain.StoreUnavailable("failed to update medication status", err)
	}
	return rec, nil
}

func (r *PostgresMedicationsRepository) ListPendingAt(ctx context.Context, scheduledTime string) ([]domain.MedicationRecord, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE status = 'pending' AND scheduled_time = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, scheduledTime)
	if err != nil {
		return nil, domain.StoreUnavailable("failed to list pending medications", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (*domain.MedicationRecord, error) {
	var (
		rec    domain.MedicationRecord
		dosage sql.NullString
		status string
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.MedicineName, &dosage, &rec.ScheduledTime, &status); err != nil {
		return nil, err
	}
	rec.Dosage = dosage.String
	rec.Status = domain.MedicationStatus(status)
	return &rec, nil
}

func scanMedications(rows *sql.Rows) ([]domain.MedicationRecord, error) {
	out := []domain.MedicationRecord{}
	for rows.Next() {
		rec, err := scanMedication(rows)
		if err != nil {
			return nil, domain.StoreUnavailable("failed to scan medication", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreUnavailable("failed to iterate medications", err)
	}
	return out, nil
}
