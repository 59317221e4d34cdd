// Package users persists user identity records. GetByEmail is the single
// lookup all authentication and ownership logic hangs off: it is exact-match
// and case-sensitive, symmetric with how registration stores the email.
package users

import (
	"context"

	"github.com/adithya/trackfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	Delete(ctx context.Context, userID int64) error
}
