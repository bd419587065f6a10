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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"cantierelog/internal/domain"
	applog "cantierelog/internal/log"
)

// Snapshot is a complete point-in-time export of every collection. It exists
// only as an interchange payload; the engine never stores one. The JSON field
// names are the backup file format and must stay stable across releases;
// site-visit reports travel under "documents".
type Snapshot struct {
	Version     int                 `json:"version"`
	Timestamp   int64               `json:"timestamp"` // milliseconds since epoch
	Users       []domain.User       `json:"users"`
	Projects    []domain.Project    `json:"projects"`
	Verbali     []domain.Verbale    `json:"documents"`
	Permissions []domain.Permission `json:"permissions"`
}

// normalize replaces nil collection slices with empty ones so a hand-built
// snapshot serializes to [] rather than null.
func (s *Snapshot) normalize() {
	if s.Users == nil {
		s.Users = []domain.User{}
	}
	if s.Projects == nil {
		s.Projects = []domain.Project{}
	}
	if s.Verbali == nil {
		s.Verbali = []domain.Verbale{}
	}
	if s.Permissions == nil {
		s.Permissions = []domain.Permission{}
	}
}

// snapshotSchema is the contract a backup file must satisfy before restore
// will touch the database.
const snapshotSchema = `{
	"type": "object",
	"required": ["version", "timestamp", "users", "projects", "documents", "permissions"],
	"properties": {
		"version":   {"type": "integer", "minimum": 1},
		"timestamp": {"type": "integer", "minimum": 0},
		"users":       {"type": "array", "items": {"type": "object", "required": ["id", "email"]}},
		"projects":    {"type": "array", "items": {"type": "object", "required": ["id"]}},
		"documents":   {"type": "array", "items": {"type": "object", "required": ["id", "projectId"]}},
		"permissions": {"type": "array", "items": {"type": "object", "required": ["id", "projectId"]}}
	}
}`

// ExportSnapshot reads all four collections inside one transaction, so the
// snapshot is a consistent view no concurrent write can tear.
func (s *Store) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		Version:     schemaVersion,
		Timestamp:   time.Now().UnixMilli(),
		Users:       []domain.User{},
		Projects:    []domain.Project{},
		Verbali:     []domain.Verbale{},
		Permissions: []domain.Permission{},
	}
	err := s.withTx(ctx, txRead, func(tx *sql.Tx) error {
		if err := readAll(ctx, tx, `SELECT payload FROM users`, &snap.Users); err != nil {
			return err
		}
		if err := readAll(ctx, tx, `SELECT payload FROM projects`, &snap.Projects); err != nil {
			return err
		}
		if err := readAll(ctx, tx, `SELECT payload FROM verbali`, &snap.Verbali); err != nil {
			return err
		}
		return readAll(ctx, tx, `SELECT payload FROM permissions`, &snap.Permissions)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// RestoreSnapshot validates snap against the backup schema, then replaces the
// entire store content inside one transaction: every collection is cleared
// and repopulated with insert-if-absent semantics. A duplicate id inside the
// snapshot fails the whole restore and leaves the store untouched.
//
// Restore replaces, never merges.
func (s *Store) RestoreSnapshot(ctx context.Context, snap Snapshot) error {
	l := applog.WithOperation(applog.WithComponent("store"), "restore")
	snap.normalize()
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	err := s.withTx(ctx, txReadWrite, func(tx *sql.Tx) error {
		for _, table := range []string{"users", "projects", "verbali", "permissions"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, u := range snap.Users {
			payload, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("restore user: marshal: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO users(id, email, payload) VALUES(?, ?, ?)`,
				u.ID, u.Email, string(payload)); err != nil {
				return restoreInsertErr("user", u.ID, err)
			}
		}
		for _, p := range snap.Projects {
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("restore project: marshal: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO projects(id, payload) VALUES(?, ?)`,
				p.ID, string(payload)); err != nil {
				return restoreInsertErr("project", p.ID, err)
			}
		}
		for _, v := range snap.Verbali {
			payload, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("restore verbale: marshal: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO verbali(id, project_id, payload) VALUES(?, ?, ?)`,
				v.ID, v.ProjectID, string(payload)); err != nil {
				return restoreInsertErr("verbale", v.ID, err)
			}
		}
		for _, p := range snap.Permissions {
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("restore permission: marshal: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO permissions(id, project_id, payload) VALUES(?, ?, ?)`,
				p.ID, p.ProjectID, string(payload)); err != nil {
				return restoreInsertErr("permission", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		l.Error("restore failed", slog.Any("err", err))
		return err
	}
	l.Info("snapshot restored",
		slog.Int("users", len(snap.Users)),
		slog.Int("projects", len(snap.Projects)),
		slog.Int("verbali", len(snap.Verbali)),
		slog.Int("permissions", len(snap.Permissions)))
	return nil
}

func restoreInsertErr(kind, id string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("restore %s %s: %w", kind, id, ErrDuplicateKey)
	}
	return fmt.Errorf("restore %s %s: %w", kind, id, err)
}

// validateSnapshot checks snap against snapshotSchema.
func validateSnapshot(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("validate snapshot: marshal: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid snapshot: %s", errs[0])
		}
		return fmt.Errorf("invalid snapshot")
	}
	return nil
}

func readAll[T any](ctx context.Context, tx *sql.Tx, query string, dst *[]T) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("export read: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("export scan: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return fmt.Errorf("export decode: %w", err)
		}
		*dst = append(*dst, v)
	}
	return rows.Err()
}

// BackupFileName returns the conventional name of a backup written on day t:
// cantierelog_backup_<ISO-date>.json.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("cantierelog_backup_%s.json", t.Format("2006-01-02"))
}

// WriteBackupFile exports a snapshot and writes it under dir using the
// conventional name. It returns the full path of the file written.
func (s *Store) WriteBackupFile(ctx context.Context, dir string) (string, error) {
	snap, err := s.ExportSnapshot(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, BackupFileName(time.UnixMilli(snap.Timestamp)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// ReadBackupFile parses and validates a backup file without touching the
// store. Feed the result to RestoreSnapshot.
func ReadBackupFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read backup: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse backup: %w", err)
	}
	if err := validateSnapshot(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
