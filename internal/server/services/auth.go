// Package services contains server-side business logic. This file implements
// AuthSessionService: registration, login, token refresh, and account
// deletion, on top of the token codec and the users repository.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/models"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// gmailPattern gates registration: only Gmail addresses are accepted.
var gmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is what a successful register or login returns to the client.
type AuthResult struct {
	TokenPair
	Name string
}

// AuthSessionService owns the credential lifecycle. Each user has at most one
// stored refresh token: issuing a new one on login revokes the previous
// session server-side.
type AuthSessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
}

// NewAuthSessionService constructs an AuthSessionService.
func NewAuthSessionService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec) *AuthSessionService {
	return &AuthSessionService{db: db, repomanager: m, codec: codec}
}

// Register creates a user and immediately starts a session. Validation runs
// in a fixed order: email format, duplicate email, then password. The email
// is stored exactly as submitted, keeping lookups symmetric.
func (s *AuthSessionService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	if !gmailPattern.MatchString(email) {
		return nil, common.ErrInvalidEmail
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrEmailExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}

	if strings.TrimSpace(password) == "" {
		return nil, common.ErrEmptyPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	pair, err := s.issuePair(email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		RefreshToken: pair.RefreshToken,
	}
	if _, err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &AuthResult{TokenPair: *pair, Name: name}, nil
}

// Login verifies credentials and mints a fresh token pair. The stored refresh
// token is overwritten, so any earlier session can no longer refresh.
func (s *AuthSessionService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoUser
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidPassword
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &AuthResult{TokenPair: *pair, Name: user.Name}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated. The submitted token must match the stored one
// byte for byte; the comparison is constant-time.
func (s *AuthSessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.codec.ExtractSubject(refreshToken)
	if err != nil && !errors.Is(err, common.ErrTokenExpired) {
		return "", common.ErrInvalidRefreshToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if _, err := s.codec.Verify(refreshToken); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return "", common.ErrSessionExpired
		}
		return "", common.ErrInvalidRefreshToken
	}

	if subtle.ConstantTimeCompare([]byte(refreshToken), []byte(user.RefreshToken)) != 1 {
		return "", common.ErrInvalidRefreshToken
	}

	access, err := s.codec.Issue(user.Email, auth.TokenKindAccess)
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}
	return access, nil
}

// DeleteAccount removes the authenticated user and everything they own in one
// transaction: skills, per-drive JD/notes/checklist rows, drives, then the
// user row itself.
func (s *AuthSessionService) DeleteAccount(ctx context.Context) error {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Skills(tx).DeleteByUser(ctx, principal.UserID); err != nil {
			return fmt.Errorf("error deleting skills: %w", err)
		}

		userDrives, err := s.repomanager.Drives(tx).ListByUser(ctx, principal.UserID)
		if err != nil {
			return fmt.Errorf("error listing drives: %w", err)
		}
		for _, d := range userDrives {
			if err := s.repomanager.JDs(tx).DeleteByDrive(ctx, d.ID); err != nil {
				return fmt.Errorf("error deleting jd: %w", err)
			}
			if err := s.repomanager.Notes(tx).DeleteByDrive(ctx, d.ID); err != nil {
				return fmt.Errorf("error deleting notes: %w", err)
			}
			if err := s.repomanager.Checklists(tx).DeleteByDrive(ctx, d.ID); err != nil {
				return fmt.Errorf("error deleting checklist: %w", err)
			}
		}

		if err := s.repomanager.Drives(tx).DeleteByUser(ctx, principal.UserID); err != nil {
			return fmt.Errorf("error deleting drives: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, principal.UserID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

func (s *AuthSessionService) issuePair(subject string) (*TokenPair, error) {
	access, err := s.codec.Issue(subject, auth.TokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}
	refresh, err := s.codec.Issue(subject, auth.TokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
