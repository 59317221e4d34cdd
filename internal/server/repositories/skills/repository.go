// Package skills persists the per-user free-text skill list, replaced
// wholesale on save.
package skills

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]string, error)
	DeleteByUser(ctx context.Context, userID int64) error
	CreateBatch(ctx context.Context, userID int64, skills []string) error
}
