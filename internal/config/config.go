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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older binaries tolerate newer files.

// StorageConfig locates the local store. DataDir holds the current database
// file, any legacy databases left behind by earlier releases, and backups.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// AdminConfig holds the credentials seeded into a fresh store on first run.
type AdminConfig struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

// RewriteConfig points at the AI text-rewrite service used by the editor.
// The access token is not stored on disk; it lives in the OS keychain.
type RewriteConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Storage       StorageConfig `yaml:"storage"`
	Admin         AdminConfig   `yaml:"admin"`
	Rewrite       RewriteConfig `yaml:"rewrite"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. The data dir default is resolved
// lazily in Load because it depends on the user scope.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Storage:       StorageConfig{DataDir: ""},
		Admin:         AdminConfig{Email: "admin@cantierelog.local", Password: "admin", DisplayName: "Amministratore"},
		Rewrite:       RewriteConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvDataDir          = "CLG_DATA_DIR"
	EnvAdminEmail       = "CLG_ADMIN_EMAIL"
	EnvAdminPassword    = "CLG_ADMIN_PASSWORD"
	EnvRewriteURL       = "CLG_REWRITE_URL"
	EnvRewriteTimeoutMs = "CLG_REWRITE_TIMEOUT_MS"
	EnvRewriteTLSInsec  = "CLG_TLS_INSECURE"
	EnvTelemetryOptIn   = "CLG_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CLG_LOG_LEVEL"
	EnvLogFormat = "CLG_LOG_FORMAT"
	EnvLogSource = "CLG_LOG_SOURCE"
	EnvLogFile   = "CLG_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "CantiereLog"
	keyringToken   = "rewrite_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (k *osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (k *osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// baseDir returns the per-user application directory.
func baseDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CantiereLog")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CantiereLog")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "cantierelog")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// It also loads the rewrite-service token from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	if cfg.Storage.DataDir == "" {
		if base, err := baseDir(); err == nil {
			cfg.Storage.DataDir = filepath.Join(base, "data")
		}
	}
	// token from keyring
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.Storage.DataDir) != "" {
		dst.Storage.DataDir = strings.TrimSpace(src.Storage.DataDir)
	}
	if strings.TrimSpace(src.Admin.Email) != "" {
		dst.Admin.Email = strings.TrimSpace(src.Admin.Email)
	}
	if src.Admin.Password != "" {
		dst.Admin.Password = src.Admin.Password
	}
	if strings.TrimSpace(src.Admin.DisplayName) != "" {
		dst.Admin.DisplayName = src.Admin.DisplayName
	}
	if src.Rewrite.BaseURL != "" {
		dst.Rewrite.BaseURL = src.Rewrite.BaseURL
	}
	if src.Rewrite.TimeoutMs != 0 {
		dst.Rewrite.TimeoutMs = src.Rewrite.TimeoutMs
	}
	dst.Rewrite.TLSInsecure = src.Rewrite.TLSInsecure
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAdminEmail)); v != "" {
		cfg.Admin.Email = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Admin.Password = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRewriteURL)); v != "" {
		cfg.Rewrite.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRewriteTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rewrite.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRewriteTLSInsec)); v != "" {
		cfg.Rewrite.TLSInsecure = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "storage.data_dir":
		if os.Getenv(EnvDataDir) != "" {
			return EnvDataDir, true
		}
	case "admin.email":
		if os.Getenv(EnvAdminEmail) != "" {
			return EnvAdminEmail, true
		}
	case "rewrite.base_url":
		if os.Getenv(EnvRewriteURL) != "" {
			return EnvRewriteURL, true
		}
	case "rewrite.timeout_ms":
		if os.Getenv(EnvRewriteTimeoutMs) != "" {
			return EnvRewriteTimeoutMs, true
		}
	case "rewrite.tls_insecure":
		if os.Getenv(EnvRewriteTLSInsec) != "" {
			return EnvRewriteTLSInsec, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
