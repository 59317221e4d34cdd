package skills

import (
	"context"
	"fmt"

	"github.com/adithya/trackfolio/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT skill
		FROM skills
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM skills WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateBatch(ctx context.Context, userID int64, skills []string) error {
	query := `
		INSERT INTO skills (user_id, skill)
		VALUES ($1, $2)
	`
	for _, skill := range skills {
		if _, err := r.db.ExecContext(ctx, query, userID, skill); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
