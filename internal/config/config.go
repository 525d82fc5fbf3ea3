package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	RetryMax      int
	RetryBackoff  time.Duration
	IntegritySpec string // cron spec for the ledger integrity sweep; empty disables it
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "cowsalt.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./cowsalt.log"
	}

	retryMax := envInt("STORE_RETRY_MAX", 3)
	backoff := time.Duration(envInt("STORE_RETRY_BACKOFF_MS", 50)) * time.Millisecond

	// Unset defaults to hourly; explicitly empty disables the sweep.
	spec := "@hourly"
	if v, ok := os.LookupEnv("INTEGRITY_CRON"); ok {
		spec = strings.TrimSpace(v)
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		LogFile:       logFile,
		RetryMax:      retryMax,
		RetryBackoff:  backoff,
		IntegritySpec: spec,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s RETRY_MAX=%d INTEGRITY_CRON=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.RetryMax, cfg.IntegritySpec)
	return cfg
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
