package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Workers != 10 {
		t.Errorf("expected default workers 10, got %d", cfg.Workers)
	}
	if cfg.Limit != 0 {
		t.Errorf("expected unbounded cooperative limit by default, got %d", cfg.Limit)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.Deadline != 0 {
		t.Errorf("expected no default deadline, got %v", cfg.Deadline)
	}
	if cfg.Strict {
		t.Error("expected strict off by default")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
workers: 4
limit: 25
timeout: 5s
deadline: 2m
max_size: 2MB
bucket: mem://
progress: true
strict: true
strict_names: true
user_agent: spritefetch-test
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Workers)
	}
	if cfg.Limit != 25 {
		t.Errorf("expected limit 25, got %d", cfg.Limit)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Timeout)
	}
	if cfg.Deadline != 2*time.Minute {
		t.Errorf("expected deadline 2m, got %v", cfg.Deadline)
	}
	if cfg.MaxSize != 2*1024*1024 {
		t.Errorf("expected max size 2MB, got %d", cfg.MaxSize)
	}
	if cfg.Bucket != "mem://" {
		t.Errorf("expected bucket mem://, got %q", cfg.Bucket)
	}
	if !cfg.Progress || !cfg.Strict || !cfg.StrictNames {
		t.Errorf("expected boolean flags set, got %+v", cfg)
	}
	if cfg.UserAgent != "spritefetch-test" {
		t.Errorf("expected user agent, got %q", cfg.UserAgent)
	}
}

func TestLoadFromYAMLKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("progress: true\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Workers != 10 || cfg.Timeout != 30*time.Second {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromYAMLInvalid(t *testing.T) {
	tests := map[string]string{
		"bad duration": "timeout: soon\n",
		"bad deadline": "deadline: 5 minutes\n",
		"bad size":     "max_size: huge\n",
		"bad yaml":     "workers: [1, 2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("write config file: %v", err)
			}
			if _, err := LoadFromFile(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SPRITEFETCH_WORKERS", "16")
	t.Setenv("SPRITEFETCH_LIMIT", "8")
	t.Setenv("SPRITEFETCH_TIMEOUT", "500ms")
	t.Setenv("SPRITEFETCH_DEADLINE", "10s")
	t.Setenv("SPRITEFETCH_MAX_SIZE", "512KB")
	t.Setenv("SPRITEFETCH_PROGRESS", "1")
	t.Setenv("SPRITEFETCH_STRICT", "true")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Workers != 16 {
		t.Errorf("expected workers 16, got %d", cfg.Workers)
	}
	if cfg.Limit != 8 {
		t.Errorf("expected limit 8, got %d", cfg.Limit)
	}
	if cfg.Timeout != 500*time.Millisecond {
		t.Errorf("expected timeout 500ms, got %v", cfg.Timeout)
	}
	if cfg.Deadline != 10*time.Second {
		t.Errorf("expected deadline 10s, got %v", cfg.Deadline)
	}
	if cfg.MaxSize != 512*1024 {
		t.Errorf("expected max size 512KB, got %d", cfg.MaxSize)
	}
	if !cfg.Progress || !cfg.Strict {
		t.Errorf("expected progress and strict, got %+v", cfg)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("SPRITEFETCH_WORKERS", "many")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid SPRITEFETCH_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "negative limit", mutate: func(c *Config) { c.Limit = -1 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
		{name: "negative deadline", mutate: func(c *Config) { c.Deadline = -time.Second }, wantErr: true},
		{name: "negative max size", mutate: func(c *Config) { c.MaxSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.Bucket = "file:///tmp/sprites"

	merged := base.Merge(Config{
		Workers:  3,
		Deadline: time.Minute,
		Strict:   true,
	})

	if merged.Workers != 3 {
		t.Errorf("expected workers 3, got %d", merged.Workers)
	}
	if merged.Deadline != time.Minute {
		t.Errorf("expected deadline 1m, got %v", merged.Deadline)
	}
	if !merged.Strict {
		t.Error("expected strict")
	}
	if merged.Timeout != 30*time.Second {
		t.Errorf("zero override should keep timeout, got %v", merged.Timeout)
	}
	if merged.Bucket != "file:///tmp/sprites" {
		t.Errorf("zero override should keep bucket, got %q", merged.Bucket)
	}
}
