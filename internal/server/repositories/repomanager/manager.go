// Package repomanager vends repositories bound to a DBTX, so services can get
// transactional variants of the same repositories inside dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/repositories/checklists"
	"github.com/adithya/trackfolio/internal/server/repositories/drives"
	"github.com/adithya/trackfolio/internal/server/repositories/jds"
	"github.com/adithya/trackfolio/internal/server/repositories/notes"
	"github.com/adithya/trackfolio/internal/server/repositories/skills"
	"github.com/adithya/trackfolio/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Drives(db dbx.DBTX) drives.Repository
	Notes(db dbx.DBTX) notes.Repository
	Checklists(db dbx.DBTX) checklists.Repository
	JDs(db dbx.DBTX) jds.Repository
	Skills(db dbx.DBTX) skills.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
