package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	Env         string
	VABaseURL   string
	METBaseURL  string
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// LoadConfig reads configuration from the environment, with a .env file as a
// convenience for local development. Every value has a dev-safe default.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getEnv("CURIO_ADDR", ":8080"),
		Env:         getEnv("CURIO_ENV", "development"),
		VABaseURL:   getEnv("CURIO_VA_BASE_URL", ""),
		METBaseURL:  getEnv("CURIO_MET_BASE_URL", ""),
		JWTSecret:   getEnv("CURIO_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   getEnv("CURIO_JWT_ISSUER", "curio"),
		JWTDuration: 24 * time.Hour,
	}

	if s := os.Getenv("CURIO_JWT_TTL_HOURS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.JWTDuration = time.Duration(n) * time.Hour
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
