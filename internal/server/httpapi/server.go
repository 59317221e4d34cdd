package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adithya/trackfolio/internal/logging"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/config"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
	"github.com/adithya/trackfolio/internal/server/services"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	logger   logging.Logger
	authSvc  *services.AuthSessionService
	driveSvc *services.DriveService
	jdSvc    *services.JDService
	skillSvc *services.SkillService
	chatSvc  *services.ChatService
}

// NewServer constructs the handler set.
func NewServer(logger logging.Logger,
	authSvc *services.AuthSessionService,
	driveSvc *services.DriveService,
	jdSvc *services.JDService,
	skillSvc *services.SkillService,
	chatSvc *services.ChatService,
) *Server {
	return &Server{
		logger:   logger,
		authSvc:  authSvc,
		driveSvc: driveSvc,
		jdSvc:    jdSvc,
		skillSvc: skillSvc,
		chatSvc:  chatSvc,
	}
}

// Router assembles the full middleware chain and route table. Ordering
// matters: logging wraps everything so every response gets a line and the
// status recorder, CORS answers preflights before auth, rate limiting guards
// the credential routes, and the authenticator gates the rest.
func Router(s *Server, cfg *config.Config, codec *auth.Codec, db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	r.HandleFunc("/account", s.handleDeleteAccount).Methods(http.MethodDelete)

	r.HandleFunc("/drives", s.handleSaveDrive).Methods(http.MethodPost)
	r.HandleFunc("/drives/date/{date}", s.handleDrivesByDate).Methods(http.MethodGet)
	r.HandleFunc("/drives/type/{driveType}", s.handleDrivesByType).Methods(http.MethodGet)
	r.HandleFunc("/drives/company/{companyName}", s.handleDrivesByCompany).Methods(http.MethodGet)
	r.HandleFunc("/drives/{driveId:[0-9]+}", s.handleFetchDrive).Methods(http.MethodGet)
	r.HandleFunc("/drives/{driveId:[0-9]+}", s.handleDeleteDrive).Methods(http.MethodDelete)

	r.HandleFunc("/drives/pdf/{driveId:[0-9]+}", s.handleUploadJD).Methods(http.MethodPost)
	r.HandleFunc("/drives/pdf/{driveId:[0-9]+}", s.handleGetJD).Methods(http.MethodGet)
	r.HandleFunc("/drives/pdf/{driveId:[0-9]+}/download", s.handleJDDownloadURL).Methods(http.MethodGet)

	r.HandleFunc("/skills", s.handleListSkills).Methods(http.MethodGet)
	r.HandleFunc("/skills", s.handleReplaceSkills).Methods(http.MethodPost)

	r.HandleFunc("/chat/{driveId:[0-9]+}", s.handleChat).Methods(http.MethodPost)

	authenticator := NewAuthenticator(codec, db, m, logger)
	limiter := NewRateLimiter(cfg.AuthRateLimitPerMinute)

	var h http.Handler = r
	h = authenticator.Middleware(h)
	h = limiter.Middleware(h)
	h = CORS(cfg.AllowedOrigins)(h)
	h = Logging(logger)(h)
	return h
}
