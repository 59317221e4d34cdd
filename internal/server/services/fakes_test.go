package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/models"
	checklistsrepo "github.com/adithya/trackfolio/internal/server/repositories/checklists"
	drivesrepo "github.com/adithya/trackfolio/internal/server/repositories/drives"
	jdsrepo "github.com/adithya/trackfolio/internal/server/repositories/jds"
	notesrepo "github.com/adithya/trackfolio/internal/server/repositories/notes"
	skillsrepo "github.com/adithya/trackfolio/internal/server/repositories/skills"
	usersrepo "github.com/adithya/trackfolio/internal/server/repositories/users"
)

// base64 of a throwaway signing key
const testSecret = "c3VwZXItc2VjcmV0LXNpZ25pbmcta2V5"

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestCodec(t *testing.T) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(testSecret, time.Hour, 2*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return codec
}

func authedCtx(userID int64, email string) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{UserID: userID, Email: email})
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updateErr           error
	updatedRefreshToken string
	updateCalls         int

	deleteErr   error
	deletedUser int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	f.updateCalls++
	f.updatedRefreshToken = refreshToken
	return f.updateErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, userID int64) error {
	f.deletedUser = userID
	return f.deleteErr
}

type fakeDrivesRepo struct {
	createOut *models.Drive
	createErr error

	getOut *models.Drive
	getErr error

	updateErr error

	deleteErr error
	deletedID int64

	listOut []*models.Drive
	listErr error

	deleteByUserErr error
}

func (f *fakeDrivesRepo) Create(ctx context.Context, d *models.Drive) (*models.Drive, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return d, nil
}

func (f *fakeDrivesRepo) GetByID(ctx context.Context, id int64) (*models.Drive, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeDrivesRepo) Update(ctx context.Context, d *models.Drive) error { return f.updateErr }

func (f *fakeDrivesRepo) Delete(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeDrivesRepo) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Drive, error) {
	return f.listOut, f.listErr
}

func (f *fakeDrivesRepo) ListByUserAfter(ctx context.Context, userID int64, after time.Time) ([]*models.Drive, error) {
	return f.listOut, f.listErr
}

func (f *fakeDrivesRepo) ListByUserBefore(ctx context.Context, userID int64, before time.Time) ([]*models.Drive, error) {
	return f.listOut, f.listErr
}

func (f *fakeDrivesRepo) ListByUserAndCompany(ctx context.Context, userID int64, companyName string) ([]*models.Drive, error) {
	return f.listOut, f.listErr
}

func (f *fakeDrivesRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Drive, error) {
	return f.listOut, f.listErr
}

func (f *fakeDrivesRepo) DeleteByUser(ctx context.Context, userID int64) error {
	return f.deleteByUserErr
}

type fakeNotesRepo struct {
	listOut []*models.Note
	listErr error

	deleteErr error

	created   []*models.Note
	createErr error
}

func (f *fakeNotesRepo) ListByDrive(ctx context.Context, driveID int64) ([]*models.Note, error) {
	return f.listOut, f.listErr
}

func (f *fakeNotesRepo) DeleteByDrive(ctx context.Context, driveID int64) error { return f.deleteErr }

func (f *fakeNotesRepo) CreateBatch(ctx context.Context, driveID int64, n []*models.Note) error {
	f.created = n
	return f.createErr
}

type fakeChecklistsRepo struct {
	listOut []*models.ChecklistItem
	listErr error

	deleteErr error

	created   []*models.ChecklistItem
	createErr error
}

func (f *fakeChecklistsRepo) ListByDrive(ctx context.Context, driveID int64) ([]*models.ChecklistItem, error) {
	return f.listOut, f.listErr
}

func (f *fakeChecklistsRepo) DeleteByDrive(ctx context.Context, driveID int64) error {
	return f.deleteErr
}

func (f *fakeChecklistsRepo) CreateBatch(ctx context.Context, driveID int64, items []*models.ChecklistItem) error {
	f.created = items
	return f.createErr
}

type fakeJDsRepo struct {
	getOut *models.JD
	getErr error

	upserted  *models.JD
	upsertErr error

	deleteErr error
}

func (f *fakeJDsRepo) GetByDrive(ctx context.Context, driveID int64) (*models.JD, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeJDsRepo) Upsert(ctx context.Context, jd *models.JD) error {
	f.upserted = jd
	return f.upsertErr
}

func (f *fakeJDsRepo) DeleteByDrive(ctx context.Context, driveID int64) error { return f.deleteErr }

type fakeSkillsRepo struct {
	listOut []string
	listErr error

	deleteErr error

	created   []string
	createErr error
}

func (f *fakeSkillsRepo) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	return f.listOut, f.listErr
}

func (f *fakeSkillsRepo) DeleteByUser(ctx context.Context, userID int64) error { return f.deleteErr }

func (f *fakeSkillsRepo) CreateBatch(ctx context.Context, userID int64, s []string) error {
	f.created = s
	return f.createErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	d  *fakeDrivesRepo
	n  *fakeNotesRepo
	c  *fakeChecklistsRepo
	j  *fakeJDsRepo
	sk *fakeSkillsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Drives(db dbx.DBTX) drivesrepo.Repository         { return m.d }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository           { return m.n }
func (m *fakeRepoManager) Checklists(db dbx.DBTX) checklistsrepo.Repository { return m.c }
func (m *fakeRepoManager) JDs(db dbx.DBTX) jdsrepo.Repository               { return m.j }
func (m *fakeRepoManager) Skills(db dbx.DBTX) skillsrepo.Repository         { return m.sk }
