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

	"cantierelog/internal/domain"
	"cantierelog/internal/store"
)

func newUserCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User administration",
		Example: "  cantierelog user register --email anna@example.it --password segreto --name \"Anna Bianchi\"\n" +
			"  cantierelog user approve --id 6f1c...",
	}
	cmd.AddCommand(
		newUserRegisterCommand(deps),
		newUserLoginCommand(deps),
		newUserListCommand(deps),
		newUserApproveCommand(deps),
		newUserSuspendCommand(deps),
	)
	return cmd
}

func newUserLoginCommand(deps *commandDeps) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return usageErrorf("user login requires --email")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				u, err := st.Users.Login(ctx, email, password)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "ok: %s (id %s, status %s)\n", u.Email, u.ID, u.Status)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "E-mail address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newUserRegisterCommand(deps *commandDeps) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user (status pending until approved)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return usageErrorf("user register requires --email")
			}
			if password == "" {
				return usageErrorf("user register requires --password")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				u, err := st.Users.Register(ctx, domain.User{
					Email:       email,
					Password:    password,
					DisplayName: name,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "registered %s (id %s, status %s)\n", u.Email, u.ID, u.Status)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "E-mail address (unique)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newUserListCommand(deps *commandDeps) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				users, err := st.Users.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(deps.out, users)
				}
				for _, u := range users {
					admin := ""
					if u.IsSystemAdmin {
						admin = " admin"
					}
					fmt.Fprintf(deps.out, "%s  %-30s %-10s%s\n", u.ID, u.Email, u.Status, admin)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print users as JSON")
	return cmd
}

func newUserApproveCommand(deps *commandDeps) *cobra.Command {
	var id string
	var makeAdmin bool
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Activate a pending user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(id) == "" {
				return usageErrorf("user approve requires --id")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				var adminOverride *bool
				if cmd.Flags().Changed("admin") {
					adminOverride = &makeAdmin
				}
				if err := st.Users.UpdateStatus(ctx, id, domain.UserStatusActive, adminOverride); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "user %s active\n", id)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "User id")
	cmd.Flags().BoolVar(&makeAdmin, "admin", false, "Also grant or revoke the system admin flag")
	return cmd
}

func newUserSuspendCommand(deps *commandDeps) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "suspend",
		Short: "Suspend a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(id) == "" {
				return usageErrorf("user suspend requires --id")
			}
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				if err := st.Users.UpdateStatus(ctx, id, domain.UserStatusSuspended, nil); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "user %s suspended\n", id)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "User id")
	return cmd
}
