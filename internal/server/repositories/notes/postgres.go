package notes

import (
	"context"
	"fmt"

	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByDrive(ctx context.Context, driveID int64) ([]*models.Note, error) {
	query := `
		SELECT id, drive_id, content, completed
		FROM notes
		WHERE drive_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, driveID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.DriveID, &note.Content, &note.Completed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByDrive(ctx context.Context, driveID int64) error {
	query := `DELETE FROM notes WHERE drive_id = $1`
	if _, err := r.db.ExecContext(ctx, query, driveID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, driveID int64, notes []*models.Note) error {
	query := `
		INSERT INTO notes (drive_id, content, completed)
		VALUES ($1, $2, $3)
	`
	for _, note := range notes {
		if _, err := r.db.ExecContext(ctx, query, driveID, note.Content, note.Completed); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
