/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"cantierelog/internal/domain"
	applog "cantierelog/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// DBFileName is the current database file under the data directory. Earlier
// releases used other names; see recovery.go.
const DBFileName = "cantierelog.sqlite"

// Options configures Open. Zero values fall back to the seeded-admin
// defaults below.
type Options struct {
	AdminEmail       string
	AdminPassword    string
	AdminDisplayName string
}

const (
	defaultAdminEmail    = "admin@cantierelog.local"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Amministratore"
)

// Store is the handle to the local database. It is created once at startup
// and passed to every collaborator that needs persistence.
type Store struct {
	db  *sql.DB
	dir string

	Users       *UserRepo
	Projects    *ProjectRepo
	Verbali     *VerbaleRepo
	Permissions *PermissionRepo
}

// DBPath returns the full path of the current database file inside dir.
func DBPath(dir string) string {
	return filepath.Join(dir, DBFileName)
}

// Open creates the data directory if needed, opens (or creates) the database,
// ensures the schema is at the current version, and seeds the administrator
// account on first run. Any failure here is fatal to the store: the caller
// must treat persistence as unavailable and must not retry blindly.
func Open(ctx context.Context, dir string, opts Options) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "open").With(
		slog.String("dir", dir),
	)
	if dir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create data dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := openSQLite(DBPath(dir))
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	s := &Store{db: db, dir: dir}
	s.Users = &UserRepo{s: s}
	s.Projects = &ProjectRepo{s: s}
	s.Verbali = &VerbaleRepo{s: s}
	s.Permissions = &PermissionRepo{s: s}

	if err := s.seedAdmin(ctx, opts); err != nil {
		_ = db.Close()
		l.Error("seed admin failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("store ready", slog.String("path", DBPath(dir)))
	return s, nil
}

// openSQLite opens the database file with WAL mode and a busy timeout. The
// pool is capped at a single connection so every transaction owns the
// database exclusively for its duration.
func openSQLite(path string) (*sql.DB, error) {
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	return db, nil
}

// seedAdmin inserts the administrator on a fresh store. The insert is ignored
// when the email already exists, so repeated startups are no-ops.
func (s *Store) seedAdmin(ctx context.Context, opts Options) error {
	admin := domain.User{
		ID:            uuid.NewString(),
		Email:         opts.AdminEmail,
		Password:      opts.AdminPassword,
		DisplayName:   opts.AdminDisplayName,
		IsSystemAdmin: true,
		Status:        domain.UserStatusActive,
	}
	if admin.Email == "" {
		admin.Email = defaultAdminEmail
	}
	if admin.Password == "" {
		admin.Password = defaultAdminPassword
	}
	if admin.DisplayName == "" {
		admin.DisplayName = defaultAdminName
	}
	payload, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users(id, email, payload) VALUES(?, ?, ?)`,
		admin.ID, admin.Email, string(payload))
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// Dir returns the data directory the store was opened on.
func (s *Store) Dir() string { return s.dir }

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Counts holds per-collection record counts.
type Counts struct {
	Users       int
	Projects    int
	Verbali     int
	Permissions int
}

// CollectionCounts returns how many records each collection holds, read in
// one transaction so the numbers are consistent with each other.
func (s *Store) CollectionCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.withTx(ctx, txRead, func(tx *sql.Tx) error {
		for _, q := range []struct {
			table string
			dst   *int
		}{
			{"users", &c.Users},
			{"projects", &c.Projects},
			{"verbali", &c.Verbali},
			{"permissions", &c.Permissions},
		} {
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+q.table).Scan(q.dst); err != nil {
				return fmt.Errorf("count %s: %w", q.table, err)
			}
		}
		return nil
	})
	return c, err
}
