package config

import (
	"os"
	"path/filepath"
	"testing"

	"duetoday/internal/storage"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != storage.BackendFile || cfg.Log.Level != "info" || !cfg.Sound.Enabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data_dir: ` + dir + `
backend: sqlite
redis:
  addr: cache:6379
  db: 2
log:
  level: debug
  json: true
metrics_addr: 127.0.0.1:9321
sound:
  enabled: false
  command: paplay /usr/share/sounds/bell.oga
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("backend/redis not loaded: %+v", cfg)
	}
	if cfg.Redis.Prefix != "duetoday:" {
		t.Errorf("default prefix lost: %q", cfg.Redis.Prefix)
	}
	if !cfg.Log.JSON || cfg.Log.Level != "debug" || cfg.MetricsAddr != "127.0.0.1:9321" {
		t.Errorf("log/metrics not loaded: %+v", cfg)
	}
	if cfg.Sound.Enabled || cfg.Sound.Command == "" {
		t.Errorf("sound not loaded: %+v", cfg.Sound)
	}
	if got := cfg.StorageOptions().SQLitePath; got != filepath.Join(dir, "duetoday.db") {
		t.Errorf("sqlite path = %q", got)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("backend: [unterminated"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DUETODAY_BACKEND", "redis")
	t.Setenv("DUETODAY_REDIS_ADDR", "redis.local:6380")
	t.Setenv("DUETODAY_REDIS_DB", "3")
	t.Setenv("DUETODAY_LOG_LEVEL", "warn")
	t.Setenv("DUETODAY_SOUND", "0")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Backend != "redis" || cfg.Redis.Addr != "redis.local:6380" || cfg.Redis.DB != 3 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Log.Level != "warn" || cfg.Sound.Enabled {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"memory", func(c *Config) { c.Backend = storage.BackendMemory }, false},
		{"redis without addr", func(c *Config) { c.Backend = storage.BackendRedis; c.Redis.Addr = "" }, true},
		{"unknown backend", func(c *Config) { c.Backend = "s3" }, true},
		{"no data dir", func(c *Config) { c.DataDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPath(t *testing.T) {
	flagDir := filepath.Join(t.TempDir(), "flag")
	envDir := filepath.Join(t.TempDir(), "env")
	t.Setenv("DUETODAY_DATA_DIR", envDir)

	tests := []struct {
		name     string
		explicit string
		dataDir  string
		want     string
	}{
		{"explicit file", "/etc/duetoday.yaml", flagDir, "/etc/duetoday.yaml"},
		{"data dir flag", "", flagDir, filepath.Join(flagDir, "config.yaml")},
		{"env data dir", "", "", filepath.Join(envDir, "config.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Path(tt.explicit, tt.dataDir); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromEnvDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DUETODAY_DATA_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Path("", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != storage.BackendMemory {
		t.Errorf("config in the env data dir was not read: backend %q", cfg.Backend)
	}
}
