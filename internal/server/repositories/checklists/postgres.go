package checklists

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

func (r *PostgresRepository) ListByDrive(ctx context.Context, driveID int64) ([]*models.ChecklistItem, error) {
	query := `
		SELECT id, drive_id, content, completed
		FROM checklist
		WHERE drive_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, driveID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ChecklistItem
	for rows.Next() {
		item := &models.ChecklistItem{}
		if err := rows.Scan(&item.ID, &item.DriveID, &item.Content, &item.Completed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByDrive(ctx context.Context, driveID int64) error {
	query := `DELETE FROM checklist WHERE drive_id = $1`
	if _, err := r.db.ExecContext(ctx, query, driveID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, driveID int64, items []*models.ChecklistItem) error {
	query := `
		INSERT INTO checklist (drive_id, content, completed)
		VALUES ($1, $2, $3)
	`
	for _, item := range items {
		if _, err := r.db.ExecContext(ctx, query, driveID, item.Content, item.Completed); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
