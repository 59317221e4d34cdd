package drives

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const driveColumns = `id, user_id, company_name, role, drive_datetime, is_on_campus`

func (r *PostgresRepository) Create(ctx context.Context, drive *models.Drive) (*models.Drive, error) {
	query := `
		INSERT INTO drive_summary (user_id, company_name, role, drive_datetime, is_on_campus)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		drive.UserID, drive.CompanyName, drive.Role, drive.DriveDatetime, drive.OnCampus).Scan(&drive.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return drive, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Drive, error) {
	query := `SELECT ` + driveColumns + ` FROM drive_summary WHERE id = $1`

	drive := &models.Drive{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&drive.ID, &drive.UserID, &drive.CompanyName, &drive.Role, &drive.DriveDatetime, &drive.OnCampus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return drive, nil
}

func (r *PostgresRepository) Update(ctx context.Context, drive *models.Drive) error {
	query := `
		UPDATE drive_summary
		SET company_name = $2, role = $3, drive_datetime = $4, is_on_campus = $5
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		drive.ID, drive.CompanyName, drive.Role, drive.DriveDatetime, drive.OnCampus); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM drive_summary WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Drive, error) {
	query := `
		SELECT ` + driveColumns + `
		FROM drive_summary
		WHERE user_id = $1 AND drive_datetime >= $2 AND drive_datetime < $3
		ORDER BY drive_datetime
	`
	return r.list(ctx, query, userID, from, to)
}

func (r *PostgresRepository) ListByUserAfter(ctx context.Context, userID int64, after time.Time) ([]*models.Drive, error) {
	query := `
		SELECT ` + driveColumns + `
		FROM drive_summary
		WHERE user_id = $1 AND drive_datetime >= $2
		ORDER BY drive_datetime
	`
	return r.list(ctx, query, userID, after)
}

func (r *PostgresRepository) ListByUserBefore(ctx context.Context, userID int64, before time.Time) ([]*models.Drive, error) {
	query := `
		SELECT ` + driveColumns + `
		FROM drive_summary
		WHERE user_id = $1 AND drive_datetime < $2
		ORDER BY drive_datetime
	`
	return r.list(ctx, query, userID, before)
}

func (r *PostgresRepository) ListByUserAndCompany(ctx context.Context, userID int64, companyName string) ([]*models.Drive, error) {
	query := `
		SELECT ` + driveColumns + `
		FROM drive_summary
		WHERE user_id = $1 AND company_name = $2
		ORDER BY drive_datetime
	`
	return r.list(ctx, query, userID, companyName)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Drive, error) {
	query := `
		SELECT ` + driveColumns + `
		FROM drive_summary
		WHERE user_id = $1
		ORDER BY drive_datetime
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM drive_summary WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Drive, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Drive
	for rows.Next() {
		drive := &models.Drive{}
		if err := rows.Scan(&drive.ID, &drive.UserID, &drive.CompanyName, &drive.Role,
			&drive.DriveDatetime, &drive.OnCampus); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, drive)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
