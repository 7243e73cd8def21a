package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	// Cache is disabled when RedisAddr is empty.
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	RedisPrefix string
	MySQLDSN    string

	CredentialBackend string // memory | redis | mysql
	JWTSecret         string
	JWTTTL            time.Duration
	DemoAdminUser     string
	DemoAdminPassword string

	CacheTTL     time.Duration
	PageSize     int
	CityTZ       *time.Location
	RatingPolicy string

	SeedURL string
	SeedKey string
	SeedRPS int

	// Review submissions allowed per client per minute.
	ReviewRPM int
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPrefix: env("REDIS_PREFIX", "meddir:"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/meddir?parseTime=true&charset=utf8mb4&loc=UTC"),

		CredentialBackend: env("CREDENTIAL_BACKEND", "memory"),
		JWTSecret:         env("JWT_SECRET", ""),
		JWTTTL:            time.Duration(atoi("JWT_TTL_MINUTES", 720)) * time.Minute,
		DemoAdminUser:     env("DEMO_ADMIN_USER", "admin"),
		DemoAdminPassword: env("DEMO_ADMIN_PASSWORD", "admin123"),

		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		PageSize:     atoi("PAGE_SIZE", 6),
		CityTZ:       location(env("CITY_TZ", "Europe/Minsk")),
		RatingPolicy: env("RATING_POLICY", "accept"),

		SeedURL: env("SEED_URL", ""),
		SeedKey: env("SEED_API_KEY", ""),
		SeedRPS: atoi("SEED_RPS", 5),

		ReviewRPM: atoi("REVIEW_RPM", 5),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		c.JWTSecret = "meddir-dev-secret"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("tz", name).Msg("unknown time zone, falling back to UTC")
		return time.UTC
	}
	return loc
}
