/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package cli wires the maintenance commands around the local store: user
// administration, backups, legacy recovery and status inspection. The editor
// itself is a separate surface; everything here works directly on the data
// dir.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type commandDeps struct {
	out io.Writer

	// dataDir overrides the configured data directory when non-empty.
	dataDir string
}

// NewRootCommand builds the cantierelog command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	deps := &commandDeps{out: out}

	cmd := &cobra.Command{
		Use:           "cantierelog",
		Short:         "CantiereLog site journal maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.PersistentFlags().StringVar(&deps.dataDir, "data-dir", "", "Data directory (defaults to the configured one)")

	cmd.AddCommand(
		newVersionCommand(deps),
		newStatusCommand(deps),
		newUserCommand(deps),
		newProjectCommand(deps),
		newBackupCommand(deps),
		newRecoverCommand(deps),
	)
	cmd.InitDefaultCompletionCmd()
	return cmd
}
