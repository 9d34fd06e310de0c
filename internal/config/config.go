package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	AppName               = "noteboard"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "noteboard.db"
	DefaultLogName        = "noteboard.log"
	DefaultStorageKey     = "noteboard_state"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Complete   string `toml:"complete"`
	Delete     string `toml:"delete"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	NextField  string `toml:"next_field"`
	Today      string `toml:"today"`
	Week       string `toml:"week"`
	All        string `toml:"all"`
	Panel      string `toml:"panel"`
	Fullscreen string `toml:"fullscreen"`
}

type Panel struct {
	Addr          string `toml:"addr"`
	SnapshotDelay string `toml:"snapshot_delay"`
	OpenBrowser   bool   `toml:"open_browser"`
}

type Config struct {
	Backend       string `toml:"backend"`
	DBPath        string `toml:"db_path"`
	StorageKey    string `toml:"storage_key"`
	DefaultFilter string `toml:"default_filter"`
	Locale        string `toml:"locale"`
	LogPath       string `toml:"log_path"`
	Panel         Panel  `toml:"panel"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath finds the config file: $NOTEBOARD_CONFIG, then the XDG
// config dir, then ~/.config.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("NOTEBOARD_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(configDir(), DefaultConfigFileName)
}

func configDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName)
	}
	return "."
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if _, err := cfg.SnapshotDelay(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SnapshotDelay parses Panel.SnapshotDelay. Empty means zero, which callers
// treat as the built-in default.
func (c Config) SnapshotDelay() (time.Duration, error) {
	v := strings.TrimSpace(c.Panel.SnapshotDelay)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(err, "panel.snapshot_delay")
	}
	if d < 0 {
		return 0, errors.Errorf("panel.snapshot_delay must not be negative: %s", v)
	}
	return d, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}

// Default is the configuration written on first launch, rooted at the
// working directory.
func Default() Config {
	return defaultConfig(".")
}

func defaultConfig(dir string) Config {
	return Config{
		Backend:       "sqlite",
		DBPath:        filepath.Join(dir, DefaultDBName),
		StorageKey:    DefaultStorageKey,
		DefaultFilter: "all",
		LogPath:       filepath.Join(dir, DefaultLogName),
		Panel: Panel{
			Addr:          "127.0.0.1:0",
			SnapshotDelay: "400ms",
			OpenBrowser:   true,
		},
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Complete:   "c",
			Delete:     "d",
			Confirm:    "enter",
			Cancel:     "esc",
			NextField:  "tab",
			Today:      "1",
			Week:       "2",
			All:        "3",
			Panel:      "p",
			Fullscreen: "f",
		},
	}
}
