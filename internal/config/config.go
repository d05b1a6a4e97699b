package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	AllowedOrigins []string // empty slice allows any origin
}

func Load() Config {
	// Best-effort .env load for local development; real deployments set
	// the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "farmlink.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")

	var origins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, AllowedOrigins: origins}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s ALLOWED_ORIGINS=%v", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.AllowedOrigins)
	return cfg
}
