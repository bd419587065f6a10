/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

// fakeTokenStore avoids touching the real OS keyring in tests.
type fakeTokenStore struct{ values map[string]string }

func (f *fakeTokenStore) Get(service, key string) (string, error) {
	return f.values[service+"/"+key], nil
}
func (f *fakeTokenStore) Set(service, key, value string) error {
	f.values[service+"/"+key] = value
	return nil
}
func (f *fakeTokenStore) Delete(service, key string) error {
	delete(f.values, service+"/"+key)
	return nil
}

func stubKeyring(t *testing.T) *fakeTokenStore {
	t.Helper()
	old := tokenStore
	fake := &fakeTokenStore{values: map[string]string{}}
	tokenStore = fake
	t.Cleanup(func() { tokenStore = old })
	return fake
}

func TestEnvOverridesDataDir(t *testing.T) {
	stubKeyring(t)
	old := os.Getenv(EnvDataDir)
	_ = os.Setenv(EnvDataDir, "/srv/cantierelog-data")
	t.Cleanup(func() { _ = os.Setenv(EnvDataDir, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Storage.DataDir, "/srv/cantierelog-data"; got != want {
		t.Fatalf("Storage.DataDir = %q, want %q", got, want)
	}
}

func TestEnvOverridesRewriteURL(t *testing.T) {
	stubKeyring(t)
	old := os.Getenv(EnvRewriteURL)
	_ = os.Setenv(EnvRewriteURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvRewriteURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Rewrite.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Rewrite.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	stubKeyring(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesAdmin(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Admin.Email = "direzione@lavori.it"
	src.Admin.Password = "segretissima"
	mergeInto(&dst, &src)
	if dst.Admin.Email != "direzione@lavori.it" || dst.Admin.Password != "segretissima" {
		t.Fatalf("admin fields not merged correctly: %#v", dst.Admin)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/clg.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/clg.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	stubKeyring(t)
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" || !cfg.Logging.Source {
		t.Fatalf("logging env overrides not applied: %#v", cfg.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvDataDir, "/x")
	if name, ok := EnvOverrideFor("storage.data_dir"); !ok || name != EnvDataDir {
		t.Fatalf("EnvOverrideFor(storage.data_dir) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unexpected override for unknown key")
	}
}

func TestTokenRoundTripThroughStore(t *testing.T) {
	fake := stubKeyring(t)
	if err := tokenStore.Set(keyringService, keyringToken, "tok-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := fake.Get(keyringService, keyringToken)
	if err != nil || got != "tok-123" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}
