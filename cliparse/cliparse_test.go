// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable ParseFlags reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "ADMIN_KEY_SALT", "LOG_FILE", "LOG_LEVEL", "CONFIG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" || cfg.DatabaseURL != "postgres://test" {
		t.Errorf("unexpected database settings: %+v", cfg)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "salt")

	cfg, err := ParseFlags([]string{"-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		Port:         DefaultPort,
		DatabaseURL:  DefaultSQLitePath,
		DatabaseType: "sqlite",
		AdminKeySalt: "salt",
		LogLevel:     DefaultLogLevel,
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestParseFlags_MissingSalt(t *testing.T) {
	clearEnv(t)

	if _, err := ParseFlags([]string{"-env", ""}); err == nil {
		t.Error("expected error when ADMIN_KEY_SALT is missing")
	}
}

func TestParseFlags_PostgresNeedsURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "salt")

	if _, err := ParseFlags([]string{"-t", "postgres", "-env", ""}); err == nil {
		t.Error("expected error when postgres has no database URL")
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad port env", nil, map[string]string{"PORT": "eighty"}},
		{"bad database type", []string{"-t", "mysql"}, nil},
		{"bad log level", []string{"-log-level", "verbose"}, nil},
		{"unknown flag", []string{"-x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ADMIN_KEY_SALT", "salt")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(append(tt.args, "-env", "")); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
port: 4000
database_type: sqlite
database_url: from-file.db
admin_key_salt: file-salt
log_file: /tmp/quickly-survey.log
log_level: DEBUG
`)

	cfg, err := ParseFlags([]string{"-c", path, "-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		Port:         4000,
		DatabaseURL:  "from-file.db",
		DatabaseType: "sqlite",
		AdminKeySalt: "file-salt",
		LogFile:      "/tmp/quickly-survey.log",
		LogLevel:     "debug",
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestParseFlags_EnvOverridesConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "port: 4000\nadmin_key_salt: file-salt\n")
	t.Setenv("PORT", "5000")
	t.Setenv("ADMIN_KEY_SALT", "env-salt")

	cfg, err := ParseFlags([]string{"-c", path, "-env", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 5000 || cfg.AdminKeySalt != "env-salt" {
		t.Errorf("environment should override the config file: %+v", cfg)
	}
}

func TestParseFlags_BadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "salt")

	if _, err := ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "-env", ""}); err == nil {
		t.Error("expected error for missing config file")
	}

	path := writeFile(t, "broken.yaml", "port: [not a number")
	if _, err := ParseFlags([]string{"-c", path, "-env", ""}); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "ADMIN_KEY_SALT=dotenv-salt\nLOG_LEVEL=warn\n")
	t.Cleanup(func() {
		os.Unsetenv("ADMIN_KEY_SALT")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.AdminKeySalt != "dotenv-salt" || cfg.LogLevel != "warn" {
		t.Errorf("expected values from .env, got %+v", cfg)
	}
}

func TestParseFlags_MissingDotEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_KEY_SALT", "salt")

	if _, err := ParseFlags([]string{"-env", filepath.Join(t.TempDir(), "nope.env")}); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
