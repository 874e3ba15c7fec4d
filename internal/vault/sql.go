// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toeirei/apppass/internal/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	// SQL drivers for the postgres and mysql dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const sqlTimeout = 5 * time.Second

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

type recordModel struct {
	bun.BaseModel `bun:"table:vault_records"`
	Service       string    `bun:"service,pk,type:varchar(255)"`
	Account       string    `bun:"account,pk,type:varchar(255)"`
	Secret        string    `bun:"secret,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// SQL keeps records in a single vault_records table. It is meant for hosts
// without a secret service; the database file or server must be protected by
// the operator.
type SQL struct {
	bun    *bun.DB
	dbType string
}

// OpenSQL connects to dbType ("sqlite", "postgres" or "mysql") and creates the
// records table when missing.
func OpenSQL(dbType, dsn string) (*SQL, error) {
	dbType = strings.ToLower(dbType)
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	switch dbType {
	case "postgres":
		driverName = "pgx"
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database type: '%s'", dbType)
	}

	if dbType == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see a different, empty database.
	if dbType == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	s := &SQL{bun: createBunDB(sqlDB, dbType), dbType: dbType}
	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()
	if _, err := s.bun.NewCreateTable().Model((*recordModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create vault table: %w", err)
	}
	logging.Debugf("vault: opened %s driver in %s", driverName, time.Since(start))
	return s, nil
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Put replaces any existing record inside one transaction.
func (s *SQL) Put(service, account, secret string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*recordModel)(nil)).
			Where("service = ?", service).Where("account = ?", account).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to replace record %s/%s: %w", service, account, err)
		}
		if _, err := tx.NewInsert().Model(&recordModel{
			Service:   service,
			Account:   account,
			Secret:    secret,
			UpdatedAt: time.Now().UTC(),
		}).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert record %s/%s: %w", service, account, err)
		}
		return nil
	})
}

func (s *SQL) Get(service, account string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()
	var m recordModel
	err := s.bun.NewSelect().Model(&m).
		Where("service = ?", service).Where("account = ?", account).
		Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read record %s/%s: %w", service, account, err)
	}
	return m.Secret, nil
}

func (s *SQL) Delete(service, account string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()
	res, err := s.bun.NewDelete().Model((*recordModel)(nil)).
		Where("service = ?", service).Where("account = ?", account).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete record %s/%s: %w", service, account, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Accounts lists the accounts stored under service, sorted.
func (s *SQL) Accounts(service string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlTimeout)
	defer cancel()
	var accounts []string
	if err := s.bun.NewSelect().Model((*recordModel)(nil)).
		Column("account").
		Where("service = ?", service).
		Order("account ASC").
		Scan(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to list records for %s: %w", service, err)
	}
	return accounts, nil
}

// Maintain runs engine-specific housekeeping. For SQLite this is PRAGMA
// optimize, VACUUM, a WAL checkpoint and an integrity check; Postgres gets
// VACUUM ANALYZE and MySQL OPTIMIZE TABLE on the records table.
func (s *SQL) Maintain(ctx context.Context) error {
	switch s.dbType {
	case "sqlite":
		// optimize is not supported everywhere (e.g. in-memory databases).
		if _, err := s.bun.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			logging.Debugf("vault: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := s.bun.ExecContext(ctx, "VACUUM;"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = s.bun.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);")
		var res string
		if err := s.bun.QueryRowContext(ctx, "PRAGMA integrity_check;").Scan(&res); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case "postgres":
		if _, err := s.bun.ExecContext(ctx, "VACUUM ANALYZE vault_records;"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case "mysql":
		if _, err := s.bun.ExecContext(ctx, "OPTIMIZE TABLE vault_records;"); err != nil {
			return fmt.Errorf("mysql optimize failed: %w", err)
		}
	default:
		return fmt.Errorf("unsupported db type for maintenance: %s", s.dbType)
	}
	logging.Infof("vault: %s maintenance complete", s.dbType)
	return nil
}

// Close closes the underlying database.
func (s *SQL) Close() error {
	return s.bun.Close()
}
