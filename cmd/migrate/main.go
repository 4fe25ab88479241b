package main

import (
	"database/sql"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"marketplace-be/internal/config"
	"marketplace-be/internal/db"
	"marketplace-be/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	defer database.Close()

	if err := run(database, *mode, migrations, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func run(db *sql.DB, mode string, fsys fs.FS, log *zap.Logger) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	slices.Sort(files)

	switch mode {
	case "up":
		return runMigrationsUp(db, fsys, files, log)
	case "down":
		return runMigrationsDown(db, fsys, files, log)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func runMigrationsUp(db *sql.DB, fsys fs.FS, files []string, log *zap.Logger) error {
	applied := 0
	for _, file := range files {
		version := path.Base(file)

		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if _, err := db.Exec(extractMigrationPart(string(content), "Up")); err != nil {
			return fmt.Errorf("migration %s failed: %w", version, err)
		}

		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration version: %w", err)
		}
		applied++
	}

	log.Info("migrations applied", zap.Int("count", applied))
	return nil
}

func runMigrationsDown(db *sql.DB, fsys fs.FS, files []string, log *zap.Logger) error {
	var lastVersion string
	err := db.QueryRow(`SELECT version FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	i := slices.IndexFunc(files, func(f string) bool { return path.Base(f) == lastVersion })
	if i < 0 {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := fs.ReadFile(fsys, files[i])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", files[i], err)
	}

	log.Info("rolling back migration", zap.String("version", lastVersion))
	if _, err := db.Exec(extractMigrationPart(string(content), "Down")); err != nil {
		return fmt.Errorf("rollback %s failed: %w", lastVersion, err)
	}

	if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = $1`, lastVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	return nil
}

// extractMigrationPart returns the statements under "-- +migrate <section>"
// up to the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	var inPart bool

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
