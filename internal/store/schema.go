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
	"errors"
	"fmt"
	"time"

	"cantierelog/internal/version"
)

// schemaVersion tracks the on-disk schema. Schema evolution is strictly
// additive: ensureSchema may create missing collections and indexes but
// never drops or renames existing ones, so one pass brings any older store
// up to date regardless of how many versions it is behind.
const schemaVersion = 3

// collection declares one keyed collection and its secondary indexes.
// The DDL uses IF NOT EXISTS throughout; running it against a store that
// already has the objects is a no-op.
type collection struct {
	name    string
	ddl     string
	indexes []string
}

var collections = []collection{
	{
		name: "users",
		ddl: `CREATE TABLE IF NOT EXISTS users (
			id      TEXT PRIMARY KEY,
			email   TEXT NOT NULL,
			payload TEXT NOT NULL
		);`,
		indexes: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users(email);`,
		},
	},
	{
		name: "projects",
		ddl: `CREATE TABLE IF NOT EXISTS projects (
			id      TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		);`,
	},
	{
		name: "verbali",
		ddl: `CREATE TABLE IF NOT EXISTS verbali (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			payload    TEXT NOT NULL
		);`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_verbali_project ON verbali(project_id);`,
		},
	},
	{
		name: "permissions",
		ddl: `CREATE TABLE IF NOT EXISTS permissions (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			payload    TEXT NOT NULL
		);`,
		indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_permissions_project ON permissions(project_id);`,
		},
	},
}

// ensureSchema creates every missing collection and index in one pass, then
// seeds or fast-forwards the single-row version table. Safe to run on every
// startup, including against a store already at the target version.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, c := range collections {
		if _, err := db.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("ensure collection %s: %w", c.name, err)
		}
		for _, idx := range c.indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return fmt.Errorf("ensure index on %s: %w", c.name, err)
			}
		}
	}
	return ensureVersionRow(ctx, db)
}

// ensureVersionRow creates the version table and its single row, or brings
// the stored schema number forward to schemaVersion. A store written by a
// newer release fails with ErrSchemaTooNew rather than being touched.
func ensureVersionRow(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS version (
		id          INTEGER PRIMARY KEY CHECK(id=1),
		schema      INTEGER NOT NULL,
		app         TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur > schemaVersion:
		return fmt.Errorf("%w: stored %d, code %d", ErrSchemaTooNew, cur, schemaVersion)
	default:
		if _, err := db.ExecContext(ctx,
			`UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`,
			schemaVersion, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// SchemaVersion reads the stored schema number.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
