/*
Package config loads the run configuration from the environment.

A .env file in the working directory is honored when present, matching
how the staging credentials are distributed. Load is called exactly once
at process start and the resulting Config is passed down explicitly;
nothing else in the program reads the environment.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything a reconciliation run needs from the outside.
type Config struct {
	DBName     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	PaysheetDir string
	SnapshotDir string

	// Inclusive inspection window applied to date_of_job.
	InspectFrom time.Time
	InspectTo   time.Time
}

// Load reads the .env file (if any) and the environment. It fails when a
// required variable is missing or a date bound does not parse; a half
// configured run is worse than no run.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBName:      getenv("DB_NAME", ""),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", ""),
		DBPassword:  getenv("DB_PWD", ""),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),
		PaysheetDir: getenv("PAYSHEET_DIR", "./paysheets"),
		SnapshotDir: getenv("SNAPSHOT_DIR", "./snapshots"),
	}

	var missing []string
	for _, v := range []struct{ name, val string }{
		{"DB_NAME", cfg.DBName},
		{"DB_USER", cfg.DBUser},
		{"INSPECT_FROM", os.Getenv("INSPECT_FROM")},
		{"INSPECT_TO", os.Getenv("INSPECT_TO")},
	} {
		if strings.TrimSpace(v.val) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.InspectFrom, err = parseDay(os.Getenv("INSPECT_FROM")); err != nil {
		return Config{}, fmt.Errorf("INSPECT_FROM: %w", err)
	}
	if cfg.InspectTo, err = parseDay(os.Getenv("INSPECT_TO")); err != nil {
		return Config{}, fmt.Errorf("INSPECT_TO: %w", err)
	}
	if cfg.InspectTo.Before(cfg.InspectFrom) {
		return Config{}, fmt.Errorf("inspection window ends before it starts: %s > %s",
			cfg.InspectFrom.Format("2006-01-02"), cfg.InspectTo.Format("2006-01-02"))
	}
	return cfg, nil
}

// DSN renders the keyword/value connection string for the pgx stdlib
// driver.
func (c Config) DSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%s sslmode=%s",
		c.DBName, c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBSSLMode)
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
