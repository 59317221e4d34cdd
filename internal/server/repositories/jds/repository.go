// Package jds persists job-description text, one row per drive.
package jds

import (
	"context"

	"github.com/adithya/trackfolio/internal/server/models"
)

type Repository interface {
	GetByDrive(ctx context.Context, driveID int64) (*models.JD, error)
	Upsert(ctx context.Context, jd *models.JD) error
	DeleteByDrive(ctx context.Context, driveID int64) error
}
