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
)

// txMode declares the intent of a unit of work. With the pool capped at one
// connection every transaction is exclusive either way; the mode documents
// the caller's contract and keeps read-only bodies honest.
type txMode int

const (
	txRead txMode = iota
	txReadWrite
)

// withTx runs fn inside one transaction: every statement issued on tx either
// commits as a whole or, when fn returns an error, is rolled back as a whole.
//
// Callers must gather all inputs before calling withTx and issue only
// synchronous statement calls inside fn: no network waits, no unrelated
// work. The body owns the store's single connection until it returns.
func (s *Store) withTx(ctx context.Context, _ txMode, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
