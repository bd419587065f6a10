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

	"cantierelog/internal/domain"
)

// VerbaleRepo provides typed access to the verbali (site-visit report)
// collection.
type VerbaleRepo struct {
	s *Store
}

// Save upserts the full record by id, keeping the project_id index column in
// step with the payload.
func (r *VerbaleRepo) Save(ctx context.Context, v domain.Verbale) error {
	v.ID = ensureID(v.ID)
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("save verbale: marshal: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO verbali(id, project_id, payload) VALUES(?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET project_id=excluded.project_id, payload=excluded.payload`,
		v.ID, v.ProjectID, string(payload))
	if err != nil {
		return fmt.Errorf("save verbale: %w", err)
	}
	return nil
}

// GetByID fetches one verbale or ErrNotFound.
func (r *VerbaleRepo) GetByID(ctx context.Context, id string) (domain.Verbale, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT payload FROM verbali WHERE id = ?`, id)
	v, err := scanVerbale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Verbale{}, ErrNotFound
		}
		return domain.Verbale{}, fmt.Errorf("get verbale: %w", err)
	}
	return v, nil
}

// List returns every verbale across all projects, order unspecified.
func (r *VerbaleRepo) List(ctx context.Context) ([]domain.Verbale, error) {
	return r.query(ctx, `SELECT payload FROM verbali`)
}

// ListByProject returns the verbali of one project through the project_id
// index. Order is unspecified; callers sort by visit number.
func (r *VerbaleRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Verbale, error) {
	return r.query(ctx, `SELECT payload FROM verbali WHERE project_id = ?`, projectID)
}

// Delete removes one verbale. Deleting an id that is not present is a no-op.
func (r *VerbaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.s.db.ExecContext(ctx, `DELETE FROM verbali WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete verbale: %w", err)
	}
	return nil
}

func (r *VerbaleRepo) query(ctx context.Context, q string, args ...any) ([]domain.Verbale, error) {
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query verbali: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Verbale
	for rows.Next() {
		v, err := scanVerbale(rows)
		if err != nil {
			return nil, fmt.Errorf("query verbali: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVerbale(sc rowScanner) (domain.Verbale, error) {
	var raw string
	if err := sc.Scan(&raw); err != nil {
		return domain.Verbale{}, err
	}
	var v domain.Verbale
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.Verbale{}, fmt.Errorf("decode verbale payload: %w", err)
	}
	return v, nil
}
