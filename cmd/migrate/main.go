package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Temutjin2k/fastlane/config"
	pgrepo "github.com/Temutjin2k/fastlane/internal/adapter/postgres"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/postgres"
	"github.com/Temutjin2k/fastlane/pkg/trm"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	dir        = flag.String("dir", "migrations", "Directory with NNNNNN_name.up.sql / .down.sql files")
	down       = flag.Bool("down", false, "Roll back every applied migration")
)

const versionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	flag.Parse()

	ctx := wrap.WithAction(context.Background(), "migrate")
	log := logger.InitLogger("migrate", logger.LevelInfo)

	dbCfg, err := config.LoadDatabase(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure", err)
		os.Exit(1)
	}

	client, err := postgres.New(ctx, dbCfg)
	if err != nil {
		log.Error(ctx, "failed to connect to postgres", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := migrate(ctx, client.Pool, *dir, *down, log); err != nil {
		log.Error(ctx, "migration failed", err)
		client.Close()
		os.Exit(1)
	}
}

func migrate(ctx context.Context, db *pgxpool.Pool, dir string, down bool, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, versionsTable); err != nil {
		return fmt.Errorf("create versions table: %w", err)
	}

	suffix := ".up.sql"
	if down {
		suffix = ".down.sql"
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no migration files found in " + dir)
	}
	slices.Sort(files)
	if down {
		slices.Reverse(files)
	}

	tm := trm.New(db)
	for _, file := range files {
		version := strings.TrimSuffix(filepath.Base(file), suffix)

		applied, err := isApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if applied != down {
			continue
		}

		body, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if err := checkNoTxControl(string(body)); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(file), err)
		}

		err = tm.Do(ctx, func(ctx context.Context) error {
			tx := pgrepo.TxorDB(ctx, db)
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			if down {
				_, err = tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version)
			} else {
				_, err = tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
			}
			return err
		})
		if err != nil {
			return err
		}
		log.Info(ctx, "migration applied", "version", version, "down", down)
	}
	return nil
}

func isApplied(ctx context.Context, db *pgxpool.Pool, version string) (bool, error) {
	var v string
	err := db.QueryRow(ctx, `SELECT version FROM schema_migrations WHERE version = $1`, version).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

var errTxControl = errors.New("migration must not manage its own transaction")

// checkNoTxControl rejects BEGIN/COMMIT/ROLLBACK statements.
// Every file already runs in one transaction together with its version row.
func checkNoTxControl(body string) error {
	for line := range strings.SplitSeq(body, "\n") {
		stmt := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		switch stmt {
		case "BEGIN", "BEGIN TRANSACTION", "START TRANSACTION", "COMMIT", "END", "ROLLBACK":
			return fmt.Errorf("%w: %q", errTxControl, strings.TrimSpace(line))
		}
	}
	return nil
}
