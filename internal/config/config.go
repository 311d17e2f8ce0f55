package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"duetoday/internal/storage"
)

type Config struct {
	DataDir     string      `yaml:"data_dir"`
	Backend     string      `yaml:"backend"`
	SQLitePath  string      `yaml:"sqlite_path"`
	Redis       RedisConfig `yaml:"redis"`
	Log         LogConfig   `yaml:"log"`
	MetricsAddr string      `yaml:"metrics_addr"`
	Sound       SoundConfig `yaml:"sound"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Command string `yaml:"command"`
}

func Default() *Config {
	dataDir, err := storage.DefaultDataDir()
	if err != nil {
		dataDir = ".duetoday"
	}
	return &Config{
		DataDir: dataDir,
		Backend: storage.BackendFile,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "duetoday:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Sound: SoundConfig{
			Enabled: true,
		},
	}
}

// Load starts from defaults and overlays the YAML file at path. A missing
// file is not an error. An empty path means <data dir>/config.yaml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Path picks the config file. An explicit path wins; otherwise it is
// config.yaml in dataDir, then in DUETODAY_DATA_DIR, then in the default
// data dir.
func Path(explicit, dataDir string) string {
	if explicit != "" {
		return explicit
	}
	if dataDir == "" {
		_ = godotenv.Load()
		dataDir = os.Getenv("DUETODAY_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = Default().DataDir
	}
	return filepath.Join(dataDir, "config.yaml")
}

// ApplyEnv overlays DUETODAY_* variables, reading .env first when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("DUETODAY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DUETODAY_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DUETODAY_SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("DUETODAY_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("DUETODAY_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("DUETODAY_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("DUETODAY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DUETODAY_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("DUETODAY_SOUND_COMMAND"); v != "" {
		c.Sound.Command = v
	}
	if v := os.Getenv("DUETODAY_SOUND"); v != "" {
		c.Sound.Enabled = v == "true" || v == "1"
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	case storage.BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis backend needs redis.addr")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DataDir == "" {
		return errors.New("data_dir is empty")
	}
	return nil
}

// StorageOptions maps the config onto storage.Open options.
func (c *Config) StorageOptions() storage.Options {
	sqlitePath := c.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(c.DataDir, "duetoday.db")
	}
	return storage.Options{
		Backend:       c.Backend,
		FilePath:      filepath.Join(c.DataDir, "store.json"),
		SQLitePath:    sqlitePath,
		RedisAddr:     c.Redis.Addr,
		RedisPassword: c.Redis.Password,
		RedisDB:       c.Redis.DB,
		RedisPrefix:   c.Redis.Prefix,
	}
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "duetoday.log")
}
