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

// UserRepo provides typed access to the users collection.
type UserRepo struct {
	s *Store
}

// Register inserts a new user with status pending. It fails with
// ErrDuplicateKey when the email is already taken; insert semantics, never
// an overwrite.
func (r *UserRepo) Register(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = ensureID(u.ID)
	u.Status = domain.UserStatusPending
	payload, err := json.Marshal(u)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: marshal user: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO users(id, email, payload) VALUES(?, ?, ?)`,
		u.ID, u.Email, string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("register %s: %w", u.Email, ErrDuplicateKey)
		}
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	return u, nil
}

// Login looks the user up through the email index and compares the opaque
// password by equality. Unknown email and wrong password both yield
// ErrInvalidCredentials; status gating (pending/suspended) is the caller's
// concern, the full record is returned either way.
func (r *UserRepo) Login(ctx context.Context, email, password string) (domain.User, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT payload FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	if u.Password != password {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID fetches one user or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT payload FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail fetches one user through the email index or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.s.db.QueryRowContext(ctx, `SELECT payload FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// List returns every user, order unspecified.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT payload FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Save upserts the full record by id. The email index column follows the
// payload so index lookups stay consistent.
func (r *UserRepo) Save(ctx context.Context, u domain.User) error {
	u.ID = ensureID(u.ID)
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("save user: marshal: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO users(id, email, payload) VALUES(?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email=excluded.email, payload=excluded.payload`,
		u.ID, u.Email, string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save user %s: %w", u.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UpdateStatus fetches the user, mutates status (and, when adminOverride is
// non-nil, the system-admin flag) and writes the record back, all in one
// transaction. A missing id returns ErrNotFound.
func (r *UserRepo) UpdateStatus(ctx context.Context, id string, status domain.UserStatus, adminOverride *bool) error {
	if !status.Valid() {
		return fmt.Errorf("update status: unknown status %q", status)
	}
	return r.s.withTx(ctx, txReadWrite, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT payload FROM users WHERE id = ?`, id)
		u, err := scanUser(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("update status: %w", err)
		}
		u.Status = status
		if adminOverride != nil {
			u.IsSystemAdmin = *adminOverride
		}
		payload, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("update status: marshal: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET email=?, payload=? WHERE id=?`,
			u.Email, string(payload), id); err != nil {
			return fmt.Errorf("update status: write: %w", err)
		}
		return nil
	})
}

func scanUser(sc rowScanner) (domain.User, error) {
	var raw string
	if err := sc.Scan(&raw); err != nil {
		return domain.User{}, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user payload: %w", err)
	}
	return u, nil
}
