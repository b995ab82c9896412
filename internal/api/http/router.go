package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/quizdesk/internal/account"
	auth "github.com/mind-engage/quizdesk/internal/auth/middleware"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
	"github.com/mind-engage/quizdesk/internal/rbac"
	"github.com/mind-engage/quizdesk/internal/storage"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

type Deps struct {
	DB        *sql.DB
	Accounts  *account.Service
	Auth      *auth.AuthService
	Drafts    *quiz.DraftStore
	Quizzes   quiz.Store
	Publisher *quiz.Publisher
	Attempts  *delivery.Manager
	Blobs     storage.BlobStore
	Events    *syncx.Recorder
	Logger    *slog.Logger

	DefaultDurationSec int
	EnablePreview      bool
	// AllowClaimRole keeps the token's role when the users table cannot be read.
	AllowClaimRole bool
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts the public and author-only routes.
func NewRouter(d Deps) chi.Router {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", Healthz)
	r.Get("/readyz", Readyz(d.DB))

	r.Post("/auth/signup", SignupHandler(d.Accounts))
	r.Post("/auth/login", LoginHandler(d.Accounts))
	if d.DB != nil {
		r.Post("/contact", ContactHandler(d.DB, d.Events, d.Logger))
	}

	// Respondents need no account.
	r.Get("/quiz/{quizID}", GetQuizHandler(d.Quizzes))
	r.Post("/quiz/{quizID}/attempts", StartAttemptHandler(d.Quizzes, d.Attempts))
	r.Route("/attempts/{attemptID}", func(ar chi.Router) {
		ar.Get("/", GetAttemptHandler(d.Attempts))
		ar.Put("/answers/{index}", SaveAnswerHandler(d.Attempts))
		ar.Post("/submit", SubmitAttemptHandler(d.Attempts))
		ar.Get("/report", ReportHandler(d.Attempts, d.Blobs, d.Logger))
	})

	// Protected API (JWT -> role from users table -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))
		if d.DB != nil {
			pr.Use(auth.AttachRoleFromDB(d.DB, d.AllowClaimRole))
		}

		pr.With(rbac.Require(rbac.PermProfileView)).
			Get("/auth/user", CurrentUserHandler(d.Accounts))
		pr.With(rbac.Require(rbac.PermPasswordEdit)).
			Post("/auth/password", ChangePasswordHandler(d.Accounts))

		pr.With(rbac.Require(rbac.PermDraftEdit)).
			Post("/drafts", CreateDraftHandler(d.Drafts, d.DefaultDurationSec))
		pr.With(rbac.Require(rbac.PermDraftEdit)).
			Post("/drafts/import", ImportDraftHandler(d.Drafts))
		pr.With(rbac.Require(rbac.PermDraftEdit)).
			Get("/drafts/{draftID}", GetDraftHandler(d.Drafts))
		pr.With(rbac.Require(rbac.PermDraftEdit)).
			Post("/drafts/{draftID}/actions", DraftActionHandler(d.Drafts))
		pr.With(rbac.Require(rbac.PermQuizPublish)).
			Post("/drafts/{draftID}/publish", PublishDraftHandler(d.Drafts, d.Publisher, d.Events, d.Logger))
		if d.EnablePreview {
			pr.With(rbac.Require(rbac.PermDraftPreview)).
				Post("/drafts/{draftID}/preview", PreviewDraftHandler(d.Drafts, d.Attempts))
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}
