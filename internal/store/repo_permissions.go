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
	"encoding/json"
	"fmt"

	"cantierelog/internal/domain"
)

// PermissionRepo provides typed access to the sharing grants. There is no
// uniqueness constraint on (project, email): granting twice creates two
// records, exactly as the forms allow.
type PermissionRepo struct {
	s *Store
}

// Grant upserts the grant by its own id.
func (r *PermissionRepo) Grant(ctx context.Context, p domain.Permission) error {
	if !p.Role.Valid() {
		return fmt.Errorf("grant: unknown role %q", p.Role)
	}
	p.ID = ensureID(p.ID)
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("grant: marshal: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO permissions(id, project_id, payload) VALUES(?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET project_id=excluded.project_id, payload=excluded.payload`,
		p.ID, p.ProjectID, string(payload))
	if err != nil {
		return fmt.Errorf("grant: %w", err)
	}
	return nil
}

// ListByProject returns the grants of one project through the project_id
// index.
func (r *PermissionRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Permission, error) {
	return r.query(ctx, `SELECT payload FROM permissions WHERE project_id = ?`, projectID)
}

// List returns every grant, order unspecified.
func (r *PermissionRepo) List(ctx context.Context) ([]domain.Permission, error) {
	return r.query(ctx, `SELECT payload FROM permissions`)
}

func (r *PermissionRepo) query(ctx context.Context, q string, args ...any) ([]domain.Permission, error) {
	rows, err := r.s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Permission
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("query permissions: %w", err)
		}
		var p domain.Permission
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode permission payload: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
