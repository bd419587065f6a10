/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cantierelog/internal/store"
)

func newBackupCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup operations",
		Example: "  cantierelog backup create --output ./backups\n" +
			"  cantierelog backup restore --from ./backups/cantierelog_backup_2026-08-31.json",
	}
	cmd.AddCommand(
		newBackupCreateCommand(deps),
		newBackupRestoreCommand(deps),
	)
	return cmd
}

func newBackupCreateCommand(deps *commandDeps) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Export every collection to a dated JSON backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(outputDir) == "" {
				return usageErrorf("backup create requires --output")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				path, err := st.WriteBackupFile(ctx, outputDir)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "backup created: %s\n", path)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&outputDir, "output", "", "Directory to write the backup file into")
	return cmd
}

func newBackupRestoreCommand(deps *commandDeps) *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the whole store with the content of a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(inputPath) == "" {
				return usageErrorf("backup restore requires --from")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				snap, err := store.ReadBackupFile(inputPath)
				if err != nil {
					return err
				}
				if err := st.RestoreSnapshot(ctx, snap); err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "restored %d users, %d projects, %d verbali, %d permissions\n",
					len(snap.Users), len(snap.Projects), len(snap.Verbali), len(snap.Permissions))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&inputPath, "from", "", "Backup file to restore from")
	return cmd
}
