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

// ProjectRepo provides typed access to the projects collection. The nested
// contract block travels inside the payload untouched; LastModified is the
// caller's responsibility, Save never bumps it.
type ProjectRepo struct {
	s *Store
}

// Save upserts the full record by id.
func (r *ProjectRepo) Save(ctx context.Context, p domain.Project) error {
	p.ID = ensureID(p.ID)
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("save project: marshal: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO projects(id, payload) VALUES(?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload=excluded.payload`,
		p.ID, string(payload))
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// GetByID fetches one project or ErrNotFound.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT payload FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns every project, order unspecified (the dashboard sorts by
// DisplayOrder itself).
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT payload FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the project together with all its verbali; see cascade.go.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.s.DeleteProjectCascade(ctx, id)
}

func scanProject(sc rowScanner) (domain.Project, error) {
	var raw string
	if err := sc.Scan(&raw); err != nil {
		return domain.Project{}, err
	}
	var p domain.Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return domain.Project{}, fmt.Errorf("decode project payload: %w", err)
	}
	return p, nil
}
