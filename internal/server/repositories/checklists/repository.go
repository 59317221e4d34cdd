// Package checklists persists drive checklist items with the same
// replace-wholesale semantics as notes.
package checklists

import (
	"context"

	"github.com/adithya/trackfolio/internal/server/models"
)

type Repository interface {
	ListByDrive(ctx context.Context, driveID int64) ([]*models.ChecklistItem, error)
	DeleteByDrive(ctx context.Context, driveID int64) error
	CreateBatch(ctx context.Context, driveID int64, items []*models.ChecklistItem) error
}
