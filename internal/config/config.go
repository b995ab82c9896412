package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string
	LogEnv    string // local|dev|prod

	DBDriver string
	DBDSN    string

	QuizStore     string // sql|redis|memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration // 0 keeps published quizzes forever

	AMQPURL     string // empty disables event publishing
	EventsQueue string

	BlobBasePath string

	AuthSecret   string
	AuthTokenTTL time.Duration
	BcryptCost   int

	DefaultDurationSec int
	EnablePreview      bool

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment take precedence over the file.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defLogEnv := "local"
	if mode == ModeOnline {
		defLogEnv = "prod"
	}
	return Config{
		Mode:      mode,
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		PublicURL: strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/"),
		LogEnv:    envOr("LOG_ENV", defLogEnv),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		QuizStore:     envOr("QUIZ_STORE", "sql"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisTTL:      envDuration("REDIS_TTL", 0),

		AMQPURL:     os.Getenv("AMQP_URL"),
		EventsQueue: envOr("EVENTS_QUEUE", "quiz.events"),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		AuthSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AuthTokenTTL: envDuration("AUTH_TOKEN_TTL", 8*time.Hour),
		BcryptCost:   envInt("BCRYPT_COST", 12),

		DefaultDurationSec: envInt("DEFAULT_DURATION_SEC", 300),
		EnablePreview:      envBool("ENABLE_PREVIEW", true),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://quizdesk.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000"),
	}
}

// CORSOrigins returns the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
