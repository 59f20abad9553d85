package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port          string
	DSN           string // empty selects the in-memory user store
	JWTSecret     string
	JWTTTL        time.Duration
	CORSOrigins   []string
	Env           string
	LogLevel      string
	MigrationsDir string
}

// lookupEnv is swapped in tests.
var lookupEnv = os.Getenv

func Load() *Config {
	_ = godotenv.Load()
	ttl, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || ttl <= 0 {
		ttl = 24
	}

	c := &Config{
		Port:          getEnv("PORT", "4000"),
		DSN:           getEnv("DB_DSN", ""),
		JWTSecret:     mustEnv("JWT_SECRET"),
		JWTTTL:        time.Duration(ttl) * time.Hour,
		CORSOrigins:   splitList(getEnv("CORS_ORIGIN", "*")),
		Env:           getEnv("ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}
	return c
}

// Addr is the listen address built from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(lookupEnv(k)); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := lookupEnv(k)
	if v == "" {
		logrus.Fatalf("missing env: %s", k)
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
