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
	"encoding/json"
	"fmt"
	"io"

	"cantierelog/internal/config"
	"cantierelog/internal/crash"
	"cantierelog/internal/store"
)

// withStore loads the configuration, opens the store and runs fn against it.
// The store is closed when fn returns; a panic inside fn goes through the
// crash handler, which writes a report and an emergency backup.
func withStore(ctx context.Context, deps *commandDeps, fn func(ctx context.Context, st *store.Store) error) error {
	cfg, _, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dir := cfg.Storage.DataDir
	if deps.dataDir != "" {
		dir = deps.dataDir
	}
	st, err := store.Open(ctx, dir, store.Options{
		AdminEmail:       cfg.Admin.Email,
		AdminPassword:    cfg.Admin.Password,
		AdminDisplayName: cfg.Admin.DisplayName,
	})
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	defer crash.Recover(st)
	return fn(ctx, st)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
