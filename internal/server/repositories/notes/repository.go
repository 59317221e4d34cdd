// Package notes persists drive notes. Saving a drive replaces its notes
// wholesale, so the repository only needs delete-all and batch-insert.
package notes

import (
	"context"

	"github.com/adithya/trackfolio/internal/server/models"
)

type Repository interface {
	ListByDrive(ctx context.Context, driveID int64) ([]*models.Note, error)
	DeleteByDrive(ctx context.Context, driveID int64) error
	CreateBatch(ctx context.Context, driveID int64, notes []*models.Note) error
}
