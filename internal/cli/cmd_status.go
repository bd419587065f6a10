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

	"github.com/spf13/cobra"

	"cantierelog/internal/store"
)

func newStatusCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database location, schema version and record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				sv, err := st.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				counts, err := st.CollectionCounts(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(deps.out, map[string]any{
						"database":       store.DBPath(st.Dir()),
						"schema_version": sv,
						"users":          counts.Users,
						"projects":       counts.Projects,
						"verbali":        counts.Verbali,
						"permissions":    counts.Permissions,
					})
				}
				fmt.Fprintf(deps.out, "Database:       %s\n", store.DBPath(st.Dir()))
				fmt.Fprintf(deps.out, "Schema version: %d\n", sv)
				fmt.Fprintf(deps.out, "Users:          %d\n", counts.Users)
				fmt.Fprintf(deps.out, "Projects:       %d\n", counts.Projects)
				fmt.Fprintf(deps.out, "Verbali:        %d\n", counts.Verbali)
				fmt.Fprintf(deps.out, "Permissions:    %d\n", counts.Permissions)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON")
	return cmd
}
