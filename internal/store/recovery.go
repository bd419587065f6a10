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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	applog "cantierelog/internal/log"
)

// legacySource identifies one database left behind by an earlier release.
// Sources are probed in order; each one succeeds or fails on its own.
type legacySource struct {
	name string // release line, for logging
	file string // database file name under the data dir
}

// legacySources lists every naming scheme previous releases used, oldest
// first. The current DBFileName is deliberately absent.
var legacySources = []legacySource{
	{name: "giornale", file: "giornale.sqlite"},
	{name: "beta", file: "cantierelog-beta.sqlite"},
}

// harvested is the raw yield of one legacy store: rows are carried as
// opaque payloads, exactly as found.
type harvested struct {
	projects []legacyRow
	verbali  []legacyVerbaleRow
}

type legacyRow struct {
	id      string
	payload string
}

type legacyVerbaleRow struct {
	id        string
	projectID string
	payload   string
}

// RecoverLegacy walks the known legacy databases under the data dir, harvests
// any projects and verbali found, and merges them into the current store by
// id. Merging is an upsert, so running recovery twice never duplicates. A
// failure in one source is logged and swallowed; the remaining sources still
// run. Returns the total number of projects merged.
func (s *Store) RecoverLegacy(ctx context.Context) (int, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "legacy_recovery")
	total := 0
	for _, src := range legacySources {
		sl := l.With(slog.String("source", src.name))
		h, ok := probeAndHarvest(ctx, sl, filepath.Join(s.dir, src.file))
		if !ok {
			continue
		}
		n, err := s.mergeHarvest(ctx, h)
		if err != nil {
			sl.Error("merge failed", slog.Any("err", err))
			continue
		}
		sl.Info("legacy source merged",
			slog.Int("projects", n), slog.Int("verbali", len(h.verbali)))
		total += n
	}
	return total, nil
}

// probeAndHarvest opens one legacy database read-only-in-intent and reads
// everything recoverable out of it. Any failure reports the source as
// unusable; the caller skips it.
func probeAndHarvest(ctx context.Context, l *slog.Logger, path string) (harvested, bool) {
	if _, err := os.Stat(path); err != nil {
		return harvested{}, false
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path)))
	if err != nil {
		l.Warn("legacy open failed", slog.Any("err", err))
		return harvested{}, false
	}
	defer func() { _ = db.Close() }()

	// A usable source must at least carry a projects collection.
	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='projects'`).Scan(&name)
	if err != nil {
		l.Info("legacy source skipped, no projects collection")
		return harvested{}, false
	}

	var h harvested
	rows, err := db.QueryContext(ctx, `SELECT id, payload FROM projects`)
	if err != nil {
		l.Warn("legacy projects read failed", slog.Any("err", err))
		return harvested{}, false
	}
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.payload); err != nil {
			_ = rows.Close()
			l.Warn("legacy projects scan failed", slog.Any("err", err))
			return harvested{}, false
		}
		h.projects = append(h.projects, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		l.Warn("legacy projects iterate failed", slog.Any("err", err))
		return harvested{}, false
	}
	_ = rows.Close()

	// Verbali are optional; an old enough source may predate them.
	for _, p := range h.projects {
		vrows, err := db.QueryContext(ctx,
			`SELECT id, project_id, payload FROM verbali WHERE project_id = ?`, p.id)
		if err != nil {
			continue
		}
		for vrows.Next() {
			var v legacyVerbaleRow
			if err := vrows.Scan(&v.id, &v.projectID, &v.payload); err != nil {
				break
			}
			h.verbali = append(h.verbali, v)
		}
		_ = vrows.Close()
	}
	return h, true
}

// mergeHarvest upserts every harvested row into the current store inside one
// transaction. Payloads travel untouched.
func (s *Store) mergeHarvest(ctx context.Context, h harvested) (int, error) {
	err := s.withTx(ctx, txReadWrite, func(tx *sql.Tx) error {
		for _, p := range h.projects {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO projects(id, payload) VALUES(?, ?)
				 ON CONFLICT(id) DO UPDATE SET payload=excluded.payload`,
				p.id, p.payload); err != nil {
				return fmt.Errorf("merge project %s: %w", p.id, err)
			}
		}
		for _, v := range h.verbali {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO verbali(id, project_id, payload) VALUES(?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET project_id=excluded.project_id, payload=excluded.payload`,
				v.id, v.projectID, v.payload); err != nil {
				return fmt.Errorf("merge verbale %s: %w", v.id, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(h.projects), nil
}
