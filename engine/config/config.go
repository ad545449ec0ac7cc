// Package config loads the badge application settings. Defaults are overridden by an optional
// YAML file, which is in turn overridden by OXY_BADGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Carmen-Shannon/oxy-badge/engine/loader"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// EnvPrefix prefixes every environment override, e.g. OXY_BADGE_WINDOW_WIDTH.
const EnvPrefix = "OXY_BADGE_"

// EnvLink is the short alias for share.initial_link.
const EnvLink = EnvPrefix + "LINK"

// Default values.
const (
	DefaultWindowTitle      = "Next.js Conf Badge"
	DefaultWindowWidth      = 1280
	DefaultWindowHeight     = 800
	DefaultFrameLimit       = 0.0
	DefaultVSync            = true
	DefaultMSAA             = true
	DefaultTextureSize      = 1024
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultShareLocation    = "https://badge.local/"
	DefaultClipboardTimeout = 2 * time.Second
	DefaultHTTPTimeout      = 10 * time.Second
	DefaultMaxBytes         = 8 << 20
	DefaultWorkers          = 4
	DefaultMetricsAddr      = ""

	minTextureSize = 64
	maxTextureSize = 4096
)

// Validation errors. Each names a field that was reset to its default.
var (
	ErrInvalidWindowSize       = errors.New("window width and height must be positive")
	ErrInvalidFrameLimit       = errors.New("render.frame_limit must not be negative")
	ErrInvalidTextureSize      = errors.New("render.texture_size must be a power of two between 64 and 4096")
	ErrInvalidLogLevel         = errors.New("log.level must be debug, info, warn or error")
	ErrInvalidLogFormat        = errors.New("log.format must be text or json")
	ErrInvalidShareLocation    = errors.New("share.location must be an absolute URL")
	ErrInvalidClipboardTimeout = errors.New("share.clipboard_timeout must be positive")
	ErrInvalidHTTPTimeout      = errors.New("assets.http_timeout must be positive")
	ErrInvalidMaxBytes         = errors.New("assets.max_bytes must be positive")
	ErrInvalidWorkers          = errors.New("assets.workers must be positive")
	ErrInvalidEnvValue         = errors.New("invalid environment value")
)

// Config holds every application setting.
type Config struct {
	Window  WindowConfig  `koanf:"window"`
	Render  RenderConfig  `koanf:"render"`
	Log     LogConfig     `koanf:"log"`
	Share   ShareConfig   `koanf:"share"`
	Assets  AssetsConfig  `koanf:"assets"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type WindowConfig struct {
	Title  string `koanf:"title"`
	Width  int    `koanf:"width"`
	Height int    `koanf:"height"`
}

type RenderConfig struct {
	FrameLimit    float64 `koanf:"frame_limit"` // frames per second, 0 = uncapped
	VSync         bool    `koanf:"vsync"`
	MSAA          bool    `koanf:"msaa"`
	TextureSize   int     `koanf:"texture_size"`
	Profiling     bool    `koanf:"profiling"`
	ForceSoftware bool    `koanf:"force_software"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type ShareConfig struct {
	Location         string        `koanf:"location"`
	InitialLink      string        `koanf:"initial_link"`
	IncludeFullState bool          `koanf:"include_full_state"`
	ClipboardTimeout time.Duration `koanf:"clipboard_timeout"`
}

// AssetsConfig references the fonts and logos by path or URL. Empty references use the
// built-in Go fonts and vector logos.
type AssetsConfig struct {
	Fonts       FontAssets    `koanf:"fonts"`
	Logos       LogoAssets    `koanf:"logos"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`
	MaxBytes    int64         `koanf:"max_bytes"`
	Workers     int           `koanf:"workers"`
	Watch       bool          `koanf:"watch"`
}

type FontAssets struct {
	Regular string `koanf:"regular"`
	Bold    string `koanf:"bold"`
	Mono    string `koanf:"mono"`
}

type LogoAssets struct {
	Event  string `koanf:"event"`
	Vercel string `koanf:"vercel"`
}

// MetricsConfig enables the Prometheus endpoint when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

// defaults is the flattened default configuration; its keys are the only keys env may set.
func defaults() map[string]any {
	return map[string]any{
		"window.title":             DefaultWindowTitle,
		"window.width":             DefaultWindowWidth,
		"window.height":            DefaultWindowHeight,
		"render.frame_limit":       DefaultFrameLimit,
		"render.vsync":             DefaultVSync,
		"render.msaa":              DefaultMSAA,
		"render.texture_size":      DefaultTextureSize,
		"render.profiling":         false,
		"render.force_software":    false,
		"log.level":                DefaultLogLevel,
		"log.format":               DefaultLogFormat,
		"share.location":           DefaultShareLocation,
		"share.initial_link":       "",
		"share.include_full_state": false,
		"share.clipboard_timeout":  DefaultClipboardTimeout,
		"assets.fonts.regular":     "",
		"assets.fonts.bold":        "",
		"assets.fonts.mono":        "",
		"assets.logos.event":       "",
		"assets.logos.vercel":      "",
		"assets.http_timeout":      DefaultHTTPTimeout,
		"assets.max_bytes":         int64(DefaultMaxBytes),
		"assets.workers":           DefaultWorkers,
		"assets.watch":             false,
		"metrics.listen_addr":      DefaultMetricsAddr,
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	cfg := &Config{}
	_ = k.Unmarshal("", cfg)
	return cfg
}

// Load reads the defaults, the optional YAML file at path and the environment, in increasing
// precedence. Invalid values are reset to their defaults and reported.
//
// Parameters:
//   - path: the YAML file, or "" for none
//
// Returns:
//   - *Config: the configuration, or nil if the file cannot be read or decoded
//   - []error: every problem found; empty if the configuration is valid
func Load(path string) (*Config, []error) {
	k := koanf.New(".")
	defs := defaults()
	var errs []error

	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, []error{fmt.Errorf("failed to load defaults: %w", err)}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", path, err)}
		}
	}

	envKeys := make(map[string]string, len(defs)+1)
	for key := range defs {
		envKeys[EnvName(key)] = key
	}
	envKeys[EnvLink] = "share.initial_link"

	provider := env.ProviderWithValue(EnvPrefix, ".", func(name, value string) (string, any) {
		key, ok := envKeys[name]
		if !ok {
			return "", nil
		}
		v, err := parseEnvValue(defs[key], value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnvValue, name, value, err))
			return "", nil
		}
		return key, v
	})
	if err := k.Load(provider, nil); err != nil {
		errs = append(errs, fmt.Errorf("failed to read environment: %w", err))
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, append(errs, fmt.Errorf("failed to decode config: %w", err))
	}

	return cfg, append(errs, cfg.Validate()...)
}

// EnvName returns the environment variable that overrides a config key.
//
// Parameters:
//   - key: a dotted config key such as "window.width"
//
// Returns:
//   - string: the variable name such as "OXY_BADGE_WINDOW_WIDTH"
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// parseEnvValue converts an environment string to the type of the key's default.
func parseEnvValue(def any, value string) (any, error) {
	switch def.(type) {
	case int:
		return strconv.Atoi(value)
	case int64:
		return strconv.ParseInt(value, 10, 64)
	case float64:
		return strconv.ParseFloat(value, 64)
	case bool:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean")
	case time.Duration:
		return time.ParseDuration(value)
	default:
		return value, nil
	}
}

// Validate resets every invalid field to its default.
//
// Returns:
//   - []error: one error per reset field (empty if valid)
func (c *Config) Validate() []error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, ErrInvalidWindowSize)
		c.Window.Width, c.Window.Height = DefaultWindowWidth, DefaultWindowHeight
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, ErrInvalidFrameLimit)
		c.Render.FrameLimit = DefaultFrameLimit
	}
	if s := c.Render.TextureSize; s < minTextureSize || s > maxTextureSize || s&(s-1) != 0 {
		errs = append(errs, ErrInvalidTextureSize)
		c.Render.TextureSize = DefaultTextureSize
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
		c.Log.Level = DefaultLogLevel
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, ErrInvalidLogFormat)
		c.Log.Format = DefaultLogFormat
	}
	if u, err := url.Parse(c.Share.Location); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ErrInvalidShareLocation)
		c.Share.Location = DefaultShareLocation
	}
	if c.Share.ClipboardTimeout <= 0 {
		errs = append(errs, ErrInvalidClipboardTimeout)
		c.Share.ClipboardTimeout = DefaultClipboardTimeout
	}
	if c.Assets.HTTPTimeout <= 0 {
		errs = append(errs, ErrInvalidHTTPTimeout)
		c.Assets.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Assets.MaxBytes <= 0 {
		errs = append(errs, ErrInvalidMaxBytes)
		c.Assets.MaxBytes = DefaultMaxBytes
	}
	if c.Assets.Workers <= 0 {
		errs = append(errs, ErrInvalidWorkers)
		c.Assets.Workers = DefaultWorkers
	}

	return errs
}

// Manifest lists the configured asset references by role.
func (c *Config) Manifest() loader.Manifest {
	return loader.Manifest{
		Fonts: map[scene.FontRole]string{
			scene.FontRegular: c.Assets.Fonts.Regular,
			scene.FontBold:    c.Assets.Fonts.Bold,
			scene.FontMono:    c.Assets.Fonts.Mono,
		},
		Logos: map[scene.LogoRole]string{
			scene.LogoEvent:  c.Assets.Logos.Event,
			scene.LogoVercel: c.Assets.Logos.Vercel,
		},
	}
}

// NewLogger builds the application logger from the log section.
//
// Parameters:
//   - w: where log records are written
//
// Returns:
//   - *slog.Logger: a text or JSON logger at the configured level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LogAttrs returns the settings worth logging at startup as slog key/value pairs.
func (c *Config) LogAttrs() []any {
	return []any{
		"window", fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height),
		"frame_limit", c.Render.FrameLimit,
		"vsync", c.Render.VSync,
		"texture_size", c.Render.TextureSize,
		"share_location", c.Share.Location,
		"full_state_links", c.Share.IncludeFullState,
		"asset_watch", c.Assets.Watch,
		"metrics", c.Metrics.ListenAddr,
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}

// LookupConfigPath returns the config file named by OXY_BADGE_CONFIG, if any.
func LookupConfigPath() string {
	return os.Getenv(EnvPrefix + "CONFIG")
}
