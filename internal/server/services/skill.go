package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// SkillService maintains the per-user skill list. The list is replaced
// wholesale on save after normalization: entries are trimmed, lowercased,
// deduplicated, and empties dropped, preserving first-seen order.
type SkillService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSkillService constructs a SkillService.
func NewSkillService(db *sql.DB, m repomanager.RepositoryManager) *SkillService {
	return &SkillService{db: db, repomanager: m}
}

// Replace overwrites the user's skill list and returns the normalized result.
func (s *SkillService) Replace(ctx context.Context, userSkills []string) ([]string, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	normalized := normalizeSkills(userSkills)

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Skills(tx)
		if err := repo.DeleteByUser(ctx, principal.UserID); err != nil {
			return fmt.Errorf("error clearing skills: %w", err)
		}
		if err := repo.CreateBatch(ctx, principal.UserID, normalized); err != nil {
			return fmt.Errorf("error saving skills: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return normalized, nil
}

// List returns the user's stored skills.
func (s *SkillService) List(ctx context.Context) ([]string, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Skills(s.db).ListByUser(ctx, principal.UserID)
}

func normalizeSkills(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, skill := range in {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}
