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

	applog "cantierelog/internal/log"
)

// DeleteProjectCascade removes the project and every verbale referencing it
// inside one transaction: either the project and all its verbali are gone, or
// nothing changed. Permissions pointing at the project are left in place
// (accepted limitation, see the package doc).
func (s *Store) DeleteProjectCascade(ctx context.Context, projectID string) error {
	l := applog.WithOperation(applog.WithComponent("store"), "cascade_delete").With(
		slog.String("project", projectID),
	)
	var verbali int64
	err := s.withTx(ctx, txReadWrite, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM verbali WHERE project_id = ?`, projectID)
		if err != nil {
			return fmt.Errorf("delete verbali: %w", err)
		}
		verbali, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		l.Error("cascade delete failed", slog.Any("err", err))
		return err
	}
	l.Info("project deleted", slog.Int64("verbali", verbali))
	return nil
}
