package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/config"
	"github.com/adithya/trackfolio/internal/server/models"
	drivesrepo "github.com/adithya/trackfolio/internal/server/repositories/drives"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
	usersrepo "github.com/adithya/trackfolio/internal/server/repositories/users"
	"github.com/adithya/trackfolio/internal/server/services"
)

// memUsers is an in-memory users repository so router tests can run a real
// register/login/refresh flow.
type memUsers struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*models.User), nextID: 1}
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	cp := *u
	cp.ID = m.nextID
	m.nextID++
	m.byEmail[cp.Email] = &cp
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsers) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	for _, u := range m.byEmail {
		if u.ID == userID {
			u.RefreshToken = refreshToken
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memUsers) Delete(ctx context.Context, userID int64) error {
	for email, u := range m.byEmail {
		if u.ID == userID {
			delete(m.byEmail, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

type stubDrives struct {
	listOut []*models.Drive
}

func (s *stubDrives) Create(ctx context.Context, d *models.Drive) (*models.Drive, error) {
	return d, nil
}
func (s *stubDrives) GetByID(ctx context.Context, id int64) (*models.Drive, error) {
	return nil, common.ErrorNotFound
}
func (s *stubDrives) Update(ctx context.Context, d *models.Drive) error { return nil }
func (s *stubDrives) Delete(ctx context.Context, id int64) error        { return nil }
func (s *stubDrives) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.Drive, error) {
	return s.listOut, nil
}
func (s *stubDrives) ListByUserAfter(ctx context.Context, userID int64, after time.Time) ([]*models.Drive, error) {
	return s.listOut, nil
}
func (s *stubDrives) ListByUserBefore(ctx context.Context, userID int64, before time.Time) ([]*models.Drive, error) {
	return s.listOut, nil
}
func (s *stubDrives) ListByUserAndCompany(ctx context.Context, userID int64, companyName string) ([]*models.Drive, error) {
	return s.listOut, nil
}
func (s *stubDrives) ListByUser(ctx context.Context, userID int64) ([]*models.Drive, error) {
	return s.listOut, nil
}
func (s *stubDrives) DeleteByUser(ctx context.Context, userID int64) error { return nil }

type routerRepoMgr struct {
	repomanager.RepositoryManager
	u *memUsers
	d *stubDrives
}

func (m *routerRepoMgr) Users(db dbx.DBTX) usersrepo.Repository   { return m.u }
func (m *routerRepoMgr) Drives(db dbx.DBTX) drivesrepo.Repository { return m.d }

func newTestRouter(t *testing.T) (http.Handler, *memUsers) {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := newMemUsers()
	rm := &routerRepoMgr{u: users, d: &stubDrives{listOut: []*models.Drive{{ID: 1, UserID: 1, CompanyName: "Acme"}}}}
	cfg := &config.Config{
		AllowedOrigins:         []string{"http://localhost:3000"},
		AuthRateLimitPerMinute: 1000,
	}
	codec := newTestCodec(t)
	logger := discardLogger()

	authSvc := services.NewAuthSessionService(db, rm, codec)
	driveSvc := services.NewDriveService(db, rm)
	jdSvc := services.NewJDService(db, rm, driveSvc, cfg)
	skillSvc := services.NewSkillService(db, rm)
	chatSvc := services.NewChatService(db, rm, driveSvc, cfg)

	srv := NewServer(logger, authSvc, driveSvc, jdSvc, skillSvc, chatSvc)
	return Router(srv, cfg, codec, db, rm, logger), users
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RegisterLoginRoundtrip(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "s3cret"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	var reg authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("bad register body: %v", err)
	}
	if reg.AccessToken == "" || reg.RefreshToken == "" || reg.Name != "Alice" {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	rec = doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "alice@gmail.com", "password": "s3cret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}

	// The access token opens authenticated routes.
	rec = doJSON(t, h, http.MethodGet, "/drives/type/nextup", reg.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RegisterBadDomainCreatesNoRow(t *testing.T) {
	h, users := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@yahoo.com", "name": "Alice", "password": "s3cret"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Please enter a valid Gmail address." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
	if len(users.byEmail) != 0 {
		t.Fatalf("no user row expected, got %d", len(users.byEmail))
	}
}

func TestRouter_RegisterDuplicateConflictsLeavingOneRow(t *testing.T) {
	h, users := newTestRouter(t)

	body := map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "s3cret"}
	if rec := doJSON(t, h, http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "This email is already registered." {
		t.Fatalf("unexpected message: %q", env.Message)
	}
	if len(users.byEmail) != 1 {
		t.Fatalf("exactly one user row expected, got %d", len(users.byEmail))
	}
}

func TestRouter_EmptyPasswordConflict(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "   "})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Please enter a valid password" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestRouter_LoginFailures(t *testing.T) {
	h, _ := newTestRouter(t)

	doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "s3cret"})

	rec := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ghost@gmail.com", "password": "s3cret"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "No user found" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	rec = doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "alice@gmail.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Invalid password" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestRouter_RefreshFlow(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "s3cret"})
	var reg authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("bad register body: %v", err)
	}

	rec = doJSON(t, h, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": reg.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", rec.Code, rec.Body.String())
	}
	var refreshed refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("bad refresh body: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatalf("expected an access token")
	}

	rec = doJSON(t, h, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": "not.a.jwt"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Invalid token. Please login again" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestRouter_InvalidDriveType(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "alice@gmail.com", "name": "Alice", "password": "s3cret"})
	var reg authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("bad register body: %v", err)
	}

	rec = doJSON(t, h, http.MethodGet, "/drives/type/someday", reg.AccessToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Invalid drive type" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}
