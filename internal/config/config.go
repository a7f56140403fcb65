// Package config loads and persists worklog settings.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/faizmokh/worklog/internal/files"
	"github.com/faizmokh/worklog/internal/logbook"
	"github.com/faizmokh/worklog/internal/sprint"
)

const (
	// DateLayout is the layout of dates in the settings file.
	DateLayout = "02.01.2006"

	envPrefix = "WORKLOG"

	// BackendJSON stores entries in logs.json.
	BackendJSON = "json"
	// BackendSQLite stores entries in worklog.db.
	BackendSQLite = "sqlite"
)

var (
	// ErrDuplicateLogType is returned when adding a type that already exists.
	ErrDuplicateLogType = errors.New("log type already configured")
	// ErrInvalidSettings wraps validation failures.
	ErrInvalidSettings = errors.New("invalid settings")
)

// LogTypeSetting is one configured tracking system.
type LogTypeSetting struct {
	Name   string `mapstructure:"name" yaml:"name" validate:"required"`
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// SprintSetting anchors sprint periods.
type SprintSetting struct {
	Start  string `mapstructure:"start" yaml:"start" validate:"required,datetime=02.01.2006"`
	Length int    `mapstructure:"length" yaml:"length" validate:"gt=0"`
}

// StatsSetting controls the statistics view.
type StatsSetting struct {
	Workdays int `mapstructure:"workdays" yaml:"workdays" validate:"gt=0"`
}

// StorageSetting selects the persistence backend.
type StorageSetting struct {
	Backend     string `mapstructure:"backend" yaml:"backend" validate:"oneof=json sqlite"`
	SkipCorrupt bool   `mapstructure:"skip_corrupt" yaml:"skip_corrupt"`
}

// Settings is the root of config.yaml.
type Settings struct {
	LogTypes []LogTypeSetting `mapstructure:"log_types" yaml:"log_types" validate:"dive"`
	Sprint   SprintSetting    `mapstructure:"sprint" yaml:"sprint"`
	Stats    StatsSetting     `mapstructure:"stats" yaml:"stats"`
	Storage  StorageSetting   `mapstructure:"storage" yaml:"storage"`
	Debug    bool             `mapstructure:"debug" yaml:"debug"`
}

var validate = validator.New()

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		LogTypes: []LogTypeSetting{
			{Name: "q", Prefix: "Q"},
			{Name: "jira", Prefix: "Jira"},
		},
		Sprint:  SprintSetting{Start: "01.01.2024", Length: sprint.DefaultLength},
		Stats:   StatsSetting{Workdays: 5},
		Storage: StorageSetting{Backend: BackendJSON},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	types := make([]map[string]any, 0, len(d.LogTypes))
	for _, t := range d.LogTypes {
		types = append(types, map[string]any{"name": t.Name, "prefix": t.Prefix})
	}
	v.SetDefault("log_types", types)
	v.SetDefault("sprint.start", d.Sprint.Start)
	v.SetDefault("sprint.length", d.Sprint.Length)
	v.SetDefault("stats.workdays", d.Stats.Workdays)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.skip_corrupt", d.Storage.SkipCorrupt)
	v.SetDefault("debug", d.Debug)
}

// Load reads config.yaml from the manager's base directory. A missing file
// yields the defaults. WORKLOG_* environment variables (optionally from a
// .env file in the working directory) override file values.
func Load(manager *files.Manager) (Settings, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.SetFs(manager.Fs())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	path := manager.ConfigPath()
	exists, err := manager.Exists(path)
	if err != nil {
		return Settings{}, fmt.Errorf("stat config %s: %w", path, err)
	}
	if exists {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Save writes settings to config.yaml atomically.
func Save(manager *files.Manager, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := manager.WriteFileAtomic(manager.ConfigPath(), data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks struct constraints and that type names are unique.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	seen := make(map[string]struct{}, len(s.LogTypes))
	for _, t := range s.LogTypes {
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSettings, ErrDuplicateLogType, t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}

// Types converts the configured log types for the core.
func (s Settings) Types() logbook.LogTypes {
	types := make(logbook.LogTypes, 0, len(s.LogTypes))
	for _, t := range s.LogTypes {
		types = append(types, logbook.LogType{Name: t.Name, Prefix: t.Prefix})
	}
	return types
}

// SprintConfig parses the sprint settings.
func (s Settings) SprintConfig() (sprint.Config, error) {
	start, err := time.Parse(DateLayout, s.Sprint.Start)
	if err != nil {
		return sprint.Config{}, fmt.Errorf("%w: sprint start %q: %v", ErrInvalidSettings, s.Sprint.Start, err)
	}
	cfg := sprint.Config{Start: start, Length: s.Sprint.Length}
	if err := cfg.Validate(); err != nil {
		return sprint.Config{}, err
	}
	return cfg, nil
}

// AddLogType appends a new type.
func (s *Settings) AddLogType(name, prefix string) error {
	name = strings.TrimSpace(name)
	if s.Types().Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateLogType, name)
	}
	s.LogTypes = append(s.LogTypes, LogTypeSetting{Name: name, Prefix: strings.TrimSpace(prefix)})
	return nil
}

// RemoveLogType drops a type from configuration. Stored statuses for it are
// left on existing entries.
func (s *Settings) RemoveLogType(name string) error {
	idx := slices.IndexFunc(s.LogTypes, func(t LogTypeSetting) bool { return t.Name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %q", logbook.ErrUnknownLogType, name)
	}
	s.LogTypes = slices.Delete(s.LogTypes, idx, idx+1)
	return nil
}

// SetPrefix changes the display prefix of a type.
func (s *Settings) SetPrefix(name, prefix string) error {
	idx := slices.IndexFunc(s.LogTypes, func(t LogTypeSetting) bool { return t.Name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %q", logbook.ErrUnknownLogType, name)
	}
	s.LogTypes[idx].Prefix = strings.TrimSpace(prefix)
	return nil
}

// SetSprint replaces the sprint anchor and length.
func (s *Settings) SetSprint(start time.Time, length int) error {
	cfg := sprint.Config{Start: start, Length: length}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.Sprint = SprintSetting{Start: start.Format(DateLayout), Length: length}
	return nil
}
