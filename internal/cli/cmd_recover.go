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

func newRecoverCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Merge projects left behind by earlier releases into the current database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), deps, func(ctx context.Context, st *store.Store) error {
				n, err := st.RecoverLegacy(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "recovered %d projects\n", n)
				return err
			})
		},
	}
}
