// Package drives persists drive summaries. Queries are always scoped by the
// owning user id; ownership decisions on single rows are made by the service
// layer after GetByID.
package drives

import (
	"context"
	"time"

	"github.com/adithya/trackfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, drive *models.Drive) (*models.Drive, error)
	GetByID(ctx context.Context, id int64) (*models.Drive, error)
	Update(ctx context.Context, drive *models.Drive) error
	Delete(ctx context.Context, id int64) error
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Drive, error)
	ListByUserAfter(ctx context.Context, userID int64, after time.Time) ([]*models.Drive, error)
	ListByUserBefore(ctx context.Context, userID int64, before time.Time) ([]*models.Drive, error)
	ListByUserAndCompany(ctx context.Context, userID int64, companyName string) ([]*models.Drive, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Drive, error)
	DeleteByUser(ctx context.Context, userID int64) error
}
