package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mind-engage/quizdesk/internal/account"
	api "github.com/mind-engage/quizdesk/internal/api/http"
	auth "github.com/mind-engage/quizdesk/internal/auth/middleware"
	"github.com/mind-engage/quizdesk/internal/config"
	"github.com/mind-engage/quizdesk/internal/db"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/grading"
	"github.com/mind-engage/quizdesk/internal/messaging"
	"github.com/mind-engage/quizdesk/internal/quiz"
	"github.com/mind-engage/quizdesk/internal/storage"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.Load()
	log := setupLogger(cfg.LogEnv)
	slog.SetDefault(log)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error("db open failed", "error", err)
		os.Exit(1)
	}
	defer dbh.Close()

	quizzes, closeQuizzes, err := openQuizStore(ctx, cfg, dbh)
	if err != nil {
		log.Error("quiz store", "store", cfg.QuizStore, "error", err)
		os.Exit(1)
	}
	defer closeQuizzes()

	// --- Events (local log, optional broker) ---
	rec := &syncx.Recorder{Log: syncx.NewEventRepo(dbh), Queue: cfg.EventsQueue, Logger: log}
	if cfg.AMQPURL != "" {
		mq, err := messaging.Dial(cfg.AMQPURL)
		if err != nil {
			log.Warn("amqp unavailable, events stay local", "error", err)
		} else {
			defer mq.Close()
			rec.Pub = mq
		}
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Error("blob store", "error", err)
		os.Exit(1)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AuthTokenTTL)
	attempts := delivery.NewManager(grading.NewDefaultGrader(),
		delivery.WithLogger(log),
		delivery.WithOnSubmit(api.RecordSubmissions(rec, log)),
	)
	defer attempts.Close()

	r := api.NewRouter(api.Deps{
		DB: dbh,
		Accounts: &account.Service{
			Users:    account.NewSQLStore(dbh),
			Tokens:   authSvc,
			Cost:     cfg.BcryptCost,
			TokenTTL: cfg.AuthTokenTTL,
		},
		Auth:               authSvc,
		Drafts:             quiz.NewDraftStore(),
		Quizzes:            quizzes,
		Publisher:          &quiz.Publisher{Store: quizzes, BaseURL: cfg.PublicURL},
		Attempts:           attempts,
		Blobs:              bs,
		Events:             rec,
		Logger:             log,
		DefaultDurationSec: cfg.DefaultDurationSec,
		EnablePreview:      cfg.EnablePreview,
		AllowClaimRole:     cfg.Mode == config.ModeOffline,
		CORSOrigins:        cfg.CORSOrigins(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "quiz_store", cfg.QuizStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	log.Info("stopped")
}

// openQuizStore picks where published quizzes live: sql (default), redis or memory.
func openQuizStore(ctx context.Context, cfg config.Config, dbh *sql.DB) (quiz.Store, func(), error) {
	noop := func() {}
	switch cfg.QuizStore {
	case "", "sql":
		return quiz.NewSQLStore(dbh), noop, nil
	case "redis":
		rdb, err := quiz.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return quiz.NewRedisStore(rdb, cfg.RedisTTL), func() { _ = rdb.Close() }, nil
	case "memory":
		return quiz.NewInMemoryStore(), noop, nil
	default:
		return nil, noop, errors.New("unknown QUIZ_STORE " + cfg.QuizStore)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return log
}
