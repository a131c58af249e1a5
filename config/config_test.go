package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr string
	}{
		{"valid staging", BaseConfig{Name: "svc", Environment: "staging"}, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", BaseConfig{Environment: "production"}, "base.name is required"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, "base.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := ServiceConfig{BaseConfig: BaseConfig{Name: "svc"}}
	cfg.ApplyDefaults()
	if cfg.Logger.Level != "debug" {
		t.Errorf("development logger level = %q, want debug", cfg.Logger.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.Logger.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "config.logger") {
		t.Errorf("expected logger error, got %v", err)
	}
}

type sourceConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Source sourceConfig `mapstructure:"source"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
environment: staging
version: "1.0.0"
logger:
  level: warn
  format: json
source:
  chunk_size: 4
`)

	var cfg testConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvPrefix("QKTEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "test-service" || cfg.Environment != "staging" || cfg.Version != "1.0.0" {
		t.Errorf("base = %+v", cfg.BaseConfig)
	}
	if cfg.Logger.Level != "warn" || cfg.Logger.Format != "json" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.Source.ChunkSize != 4 {
		t.Errorf("chunk size = %d, want 4", cfg.Source.ChunkSize)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
source:
  chunk_size: 4
`)
	t.Setenv("QKTEST_SOURCE_CHUNK_SIZE", "9")
	t.Setenv("QKTEST_ENVIRONMENT", "production")
	t.Setenv("SOURCE_CHUNK_SIZE", "100")

	var cfg testConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvPrefix("QKTEST_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Source.ChunkSize != 9 {
		t.Errorf("chunk size = %d, want 9", cfg.Source.ChunkSize)
	}
	if cfg.Environment != "production" || cfg.Debug {
		t.Errorf("base = %+v", cfg.BaseConfig)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: from-yaml\n")
	env := writeFile(t, dir, ".env", "QKENV_NAME=from-env\n")
	t.Cleanup(func() { os.Unsetenv("QKENV_NAME") })

	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(path), WithEnvFile(env), WithEnvPrefix("QKENV")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want from-env", cfg.Name)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "environment: moon\nname: svc\n")

	var cfg testConfig
	err := LoadConfig("svc", &cfg, WithConfigFile(path), WithEnvPrefix("QKNONE"))
	if err == nil || !strings.Contains(err.Error(), "base.environment") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg struct {
		Name string `mapstructure:"name"`
	}
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("QKNONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigUnreadableFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: [unclosed\n")
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

type mockFS struct {
	files  map[string]bool
	envErr error
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return m.envErr
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"cmd dir", []string{"./cmd/querydemo/config.yml", "./config.yml"}, "./cmd/querydemo/config.yml", ""},
		{"root fallback", []string{"./config.yml", "./.env"}, "./config.yml", "./.env"},
		{"named env wins", []string{"./.env", "./.env.querydemo"}, "", "./.env.querydemo"},
		{"nothing", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tt.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("querydemo", LoaderConfig{})
			if got.ConfigFile != tt.wantConfig || got.EnvFile != tt.wantEnv {
				t.Errorf("got %+v, want config=%q env=%q", got, tt.wantConfig, tt.wantEnv)
			}
		})
	}
}

func TestLoadConfigEnvFileFailureIsNotFatal(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}, envErr: errors.New("denied")}
	var cfg struct{}
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs), WithEnvPrefix("QKNONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !slices.Equal(fs.loaded, []string{"./.env"}) {
		t.Errorf("loaded = %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SOURCE_CHUNK_SIZE")
	want := []string{"source_chunk_size", "source_chunk.size", "source.chunk_size", "source.chunk.size"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, w := range want {
		if !slices.Contains(got, w) {
			t.Errorf("missing variant %q in %v", w, got)
		}
	}
	if got := envKeyVariants("NAME"); !slices.Equal(got, []string{"name"}) {
		t.Errorf("single part = %v", got)
	}
	if got := envKeyVariants("A_B_C_D_E_F_G_H_I"); len(got) != 1<<maxEnvSplits {
		t.Errorf("variants = %d, want %d", len(got), 1<<maxEnvSplits)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("demo_")(&lc)
	if lc.FileSystem != fs || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "DEMO" {
		t.Errorf("options not applied: %+v", lc)
	}
}
