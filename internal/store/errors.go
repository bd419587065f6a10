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
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record addressed by id does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateKey is returned on a unique-index violation under
	// insert-not-upsert semantics (duplicate email at registration, or a
	// duplicate id inside a snapshot import).
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a password mismatch, deliberately not distinguishing the two.
	ErrInvalidCredentials = errors.New("store: invalid credentials")

	// ErrSchemaTooNew is returned by Open when the database was written by a
	// newer release than this binary understands.
	ErrSchemaTooNew = errors.New("store: schema version newer than code")
)

// isUniqueViolation reports whether err is a SQLite unique or primary-key
// constraint failure. The modernc driver surfaces these as plain errors
// carrying the SQLite message, so the message is the only portable signal.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
