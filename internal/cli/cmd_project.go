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

func newProjectCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project maintenance",
	}
	cmd.AddCommand(
		newProjectListCommand(deps),
		newProjectDeleteCommand(deps),
	)
	return cmd
}

func newProjectListCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects with their verbale counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				projects, err := st.Projects.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(deps.out, projects)
				}
				for _, p := range projects {
					verbali, err := st.Verbali.ListByProject(ctx, p.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(deps.out, "%s  %-40s %d verbali\n", p.ID, p.Contract.Title, len(verbali))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print projects as JSON")
	return cmd
}

func newProjectDeleteCommand(deps *commandDeps) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a project and all its verbali",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(id) == "" {
				return usageErrorf("project delete requires --id")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				if err := st.Projects.Delete(ctx, id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "project %s deleted\n", id)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Project id")
	return cmd
}
