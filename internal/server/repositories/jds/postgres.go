package jds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByDrive(ctx context.Context, driveID int64) (*models.JD, error) {
	query := `
		SELECT id, drive_id, jd_text, COALESCE(storage_key, '')
		FROM jd_details
		WHERE drive_id = $1
	`
	jd := &models.JD{}
	err := r.db.QueryRowContext(ctx, query, driveID).Scan(&jd.ID, &jd.DriveID, &jd.Text, &jd.StorageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return jd, nil
}

// Upsert inserts the JD for a drive or replaces the existing one; the
// drive_id unique constraint keeps it one row per drive.
func (r *PostgresRepository) Upsert(ctx context.Context, jd *models.JD) error {
	query := `
		INSERT INTO jd_details (drive_id, jd_text, storage_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (drive_id) DO UPDATE SET jd_text = $2, storage_key = $3
	`
	if _, err := r.db.ExecContext(ctx, query, jd.DriveID, jd.Text, jd.StorageKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByDrive(ctx context.Context, driveID int64) error {
	query := `DELETE FROM jd_details WHERE drive_id = $1`
	if _, err := r.db.ExecContext(ctx, query, driveID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
