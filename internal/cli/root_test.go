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
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cantierelog/internal/store"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestStatusCommandJSON(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, "status", "--json", "--data-dir", dir)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, store.DBPath(dir), got["database"])
	require.EqualValues(t, 1, got["users"]) // seeded admin
}

func TestUserRegisterAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, "user", "register",
		"--email", "anna@example.it", "--password", "segreto", "--name", "Anna Bianchi",
		"--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "registered anna@example.it")
	require.Contains(t, out, "pending")

	out, err = runCommand(t, "user", "list", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "anna@example.it")
}

func TestUserLogin(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "user", "register",
		"--email", "anna@example.it", "--password", "segreto", "--data-dir", dir)
	require.NoError(t, err)

	out, err := runCommand(t, "user", "login",
		"--email", "anna@example.it", "--password", "segreto", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "ok: anna@example.it")

	_, err = runCommand(t, "user", "login",
		"--email", "anna@example.it", "--password", "sbagliata", "--data-dir", dir)
	require.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestUserRegisterRequiresEmail(t *testing.T) {
	_, err := runCommand(t, "user", "register", "--password", "x")
	require.Error(t, err)
	var withExitCode interface{ ExitCode() int }
	require.ErrorAs(t, err, &withExitCode)
	require.Equal(t, 2, withExitCode.ExitCode())
}

func TestBackupCreateAndRestore(t *testing.T) {
	dir := t.TempDir()
	backups := filepath.Join(dir, "out")

	_, err := runCommand(t, "user", "register",
		"--email", "anna@example.it", "--password", "segreto", "--data-dir", dir)
	require.NoError(t, err)

	out, err := runCommand(t, "backup", "create", "--output", backups, "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "backup created: ")

	matches, err := filepath.Glob(filepath.Join(backups, "cantierelog_backup_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Restore the file into a second, empty data dir.
	other := t.TempDir()
	out, err = runCommand(t, "backup", "restore", "--from", matches[0], "--data-dir", other)
	require.NoError(t, err)
	require.Contains(t, out, "restored 2 users")

	out, err = runCommand(t, "user", "list", "--data-dir", other)
	require.NoError(t, err)
	require.Contains(t, out, "anna@example.it")
}

func TestRecoverCommandEmpty(t *testing.T) {
	out, err := runCommand(t, "recover", "--data-dir", t.TempDir())
	require.NoError(t, err)
	require.Contains(t, out, "recovered 0 projects")
}
