// Package config loads geojournal settings from a YAML file, GEOJOURNAL_*
// environment variables and built-in defaults, in that order of precedence
// after the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"geojournal/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. GEOJOURNAL_DATABASE_DSN
const EnvPrefix = "GEOJOURNAL"

// Settings is the full configuration
type Settings struct {
	Database DatabaseSettings `mapstructure:"database"`
	Log      LogSettings      `mapstructure:"log"`
	Server   ServerSettings   `mapstructure:"server"`
	Content  ContentSettings  `mapstructure:"content"`
	Draft    DraftSettings    `mapstructure:"draft"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// DatabaseSettings selects the store
type DatabaseSettings struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file, discovered when empty
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

// LogSettings configures the slog handler
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ServerSettings configures `geojournal serve`
type ServerSettings struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ContentSettings configures the content composer
type ContentSettings struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DraftSettings are the values a freshly drawn location starts with
type DraftSettings struct {
	PointName   string `mapstructure:"point_name"`
	AreaName    string `mapstructure:"area_name"`
	IconColor   string `mapstructure:"icon_color"`
	FillColor   string `mapstructure:"fill_color"`
	StrokeColor string `mapstructure:"stroke_color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("content.cache_ttl", "10m")
	v.SetDefault("draft.point_name", "New place")
	v.SetDefault("draft.area_name", "New area")
	v.SetDefault("draft.icon_color", "#1d1d1f")
	v.SetDefault("draft.fill_color", "rgba(0, 113, 227, 0.2)")
	v.SetDefault("draft.stroke_color", "#0071e3")
}

// Defaults returns the settings used when no file or environment override exists
func Defaults() *Settings {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		// defaults are static; a failure here is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return s
}

// Load reads settings. An explicit path must exist; otherwise the first of
// SearchPaths that exists is read, and with none the defaults apply.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = firstExisting(SearchPaths())
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.File = path
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SearchPaths lists the config files tried when no path is given
func SearchPaths() []string {
	paths := []string{"geojournal.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "geojournal", "config.yaml"))
	}
	return paths
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks settings that would otherwise fail late
func (s *Settings) Validate() error {
	var errs []error
	switch s.Database.Driver {
	case "sqlite":
	case "postgres":
		if s.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want sqlite or postgres", s.Database.Driver))
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if s.Log.Format != "text" && s.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", s.Log.Format))
	}
	if s.Content.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("content.cache_ttl %v must not be negative", s.Content.CacheTTL))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
