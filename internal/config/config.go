// Package config loads livepose settings from defaults, an optional YAML
// file and LIVEPOSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/roach88/livepose/internal/posing"
)

// EnvPrefix prefixes every environment override, e.g.
// LIVEPOSE_POSING_UNDO_STACK_SIZE.
const EnvPrefix = "LIVEPOSE"

// EnvConfigPath names the variable that points at a config file.
const EnvConfigPath = "LIVEPOSE_CONFIG"

// Config holds application configuration.
type Config struct {
	Posing PosingConfig `mapstructure:"posing"`
	Import ImportConfig `mapstructure:"import"`
	Store  StoreConfig  `mapstructure:"store"`
	Engine EngineConfig `mapstructure:"engine"`
}

// PosingConfig holds history and reconcile settings.
type PosingConfig struct {
	UndoStackSize       int `mapstructure:"undo_stack_size"`
	ReconcileDelayTicks int `mapstructure:"reconcile_delay_ticks"`
	SnapshotDelayTicks  int `mapstructure:"snapshot_delay_ticks"`
}

// ImportConfig holds pose import settings.
type ImportConfig struct {
	ApplyModelTransform bool `mapstructure:"apply_model_transform"`
}

// StoreConfig holds sqlite settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig holds tick loop settings.
type EngineConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// PosingSettings converts to the capability's tunables.
func (c Config) PosingSettings() posing.Settings {
	return posing.Settings{
		UndoStackSize:       c.Posing.UndoStackSize,
		ReconcileDelay:      c.Posing.ReconcileDelayTicks,
		SnapshotDelay:       c.Posing.SnapshotDelayTicks,
		ApplyModelTransform: c.Import.ApplyModelTransform,
	}
}

// Validate checks values viper cannot constrain.
func (c Config) Validate() error {
	var errs []error
	if c.Posing.ReconcileDelayTicks < 1 {
		errs = append(errs, fmt.Errorf("posing.reconcile_delay_ticks must be at least 1, got %d", c.Posing.ReconcileDelayTicks))
	}
	if c.Posing.SnapshotDelayTicks < 1 {
		errs = append(errs, fmt.Errorf("posing.snapshot_delay_ticks must be at least 1, got %d", c.Posing.SnapshotDelayTicks))
	}
	if c.Engine.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_interval must be positive, got %s", c.Engine.TickInterval))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path must not be empty"))
	}
	return errors.Join(errs...)
}

// Loader reads configuration and can watch the config file for changes.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader. path overrides $LIVEPOSE_CONFIG, which
// overrides config.yaml in the user config directory.
func NewLoader(path string) *Loader {
	v := viper.New()

	defaults := posing.DefaultSettings()
	v.SetDefault("posing.undo_stack_size", defaults.UndoStackSize)
	v.SetDefault("posing.reconcile_delay_ticks", defaults.ReconcileDelay)
	v.SetDefault("posing.snapshot_delay_ticks", defaults.SnapshotDelay)
	v.SetDefault("import.apply_model_transform", defaults.ApplyModelTransform)
	v.SetDefault("store.path", filepath.Join(configDir(), "livepose.db"))
	v.SetDefault("engine.tick_interval", 16*time.Millisecond)

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads the config file if present and returns the effective config.
// A missing default file is not an error; a missing explicit file is.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch calls fn with the re-read config whenever the config file changes.
// Call after Load.
func (l *Loader) Watch(fn func(Config, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Load is NewLoader(path).Load().
func Load(path string) (Config, error) {
	return NewLoader(path).Load()
}

// AllSettings returns every effective key, for display.
func (l *Loader) AllSettings() map[string]any {
	return l.v.AllSettings()
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "livepose")
}
