package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "badge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, errs := Load("")
	require.Empty(t, errs)
	require.NotNil(t, cfg)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultWindowTitle, cfg.Window.Title)
	assert.Equal(t, DefaultWindowWidth, cfg.Window.Width)
	assert.True(t, cfg.Render.VSync)
	assert.Equal(t, DefaultTextureSize, cfg.Render.TextureSize)
	assert.Equal(t, DefaultShareLocation, cfg.Share.Location)
	assert.False(t, cfg.Share.IncludeFullState)
	assert.Equal(t, DefaultClipboardTimeout, cfg.Share.ClipboardTimeout)
	assert.Equal(t, int64(DefaultMaxBytes), cfg.Assets.MaxBytes)
	assert.Empty(t, cfg.Metrics.ListenAddr)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
window:
  title: Badge Booth
  width: 1920
render:
  frame_limit: 60
  texture_size: 512
share:
  location: https://conf.example.com/badge
  include_full_state: true
  clipboard_timeout: 500ms
assets:
  fonts:
    bold: /fonts/Inter-Bold.ttf
  logos:
    vercel: https://cdn.example.com/vercel.png
  http_timeout: 3s
  watch: true
metrics:
  listen_addr: 127.0.0.1:9108
`)

	cfg, errs := Load(path)
	require.Empty(t, errs)

	assert.Equal(t, "Badge Booth", cfg.Window.Title)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, DefaultWindowHeight, cfg.Window.Height)
	assert.Equal(t, 60.0, cfg.Render.FrameLimit)
	assert.Equal(t, 512, cfg.Render.TextureSize)
	assert.Equal(t, "https://conf.example.com/badge", cfg.Share.Location)
	assert.True(t, cfg.Share.IncludeFullState)
	assert.Equal(t, 500*time.Millisecond, cfg.Share.ClipboardTimeout)
	assert.Equal(t, "/fonts/Inter-Bold.ttf", cfg.Assets.Fonts.Bold)
	assert.Equal(t, 3*time.Second, cfg.Assets.HTTPTimeout)
	assert.True(t, cfg.Assets.Watch)
	assert.Equal(t, "127.0.0.1:9108", cfg.Metrics.ListenAddr)

	m := cfg.Manifest()
	assert.Equal(t, "/fonts/Inter-Bold.ttf", m.Fonts[scene.FontBold])
	assert.Equal(t, "https://cdn.example.com/vercel.png", m.Logos[scene.LogoVercel])
	assert.Empty(t, m.Logos[scene.LogoEvent])
}

func TestLoadEnvPrecedence(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 1920\nshare:\n  initial_link: name=File\n")

	t.Setenv("OXY_BADGE_WINDOW_WIDTH", "640")
	t.Setenv("OXY_BADGE_RENDER_VSYNC", "off")
	t.Setenv("OXY_BADGE_SHARE_CLIPBOARD_TIMEOUT", "1s")
	t.Setenv("OXY_BADGE_ASSETS_FONTS_MONO", "/fonts/mono.otf")
	t.Setenv("OXY_BADGE_LINK", "?name=Env")
	t.Setenv("OXY_BADGE_UNRELATED", "ignored")

	cfg, errs := Load(path)
	require.Empty(t, errs)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.False(t, cfg.Render.VSync)
	assert.Equal(t, time.Second, cfg.Share.ClipboardTimeout)
	assert.Equal(t, "/fonts/mono.otf", cfg.Assets.Fonts.Mono)
	assert.Equal(t, "?name=Env", cfg.Share.InitialLink)
}

func TestLoadInvalidEnvKeepsLowerLayer(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 1920\n")
	t.Setenv("OXY_BADGE_WINDOW_WIDTH", "wide")

	cfg, errs := Load(path)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidEnvValue)
	assert.Contains(t, errs[0].Error(), "OXY_BADGE_WINDOW_WIDTH")
	assert.Equal(t, 1920, cfg.Window.Width)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "negative window size",
			yaml:    "window:\n  width: -1\n",
			wantErr: ErrInvalidWindowSize,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultWindowWidth, cfg.Window.Width)
			},
		},
		{
			name:    "negative frame limit",
			yaml:    "render:\n  frame_limit: -30\n",
			wantErr: ErrInvalidFrameLimit,
			check: func(t *testing.T, cfg *Config) {
				assert.Zero(t, cfg.Render.FrameLimit)
			},
		},
		{
			name:    "texture size not a power of two",
			yaml:    "render:\n  texture_size: 1000\n",
			wantErr: ErrInvalidTextureSize,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultTextureSize, cfg.Render.TextureSize)
			},
		},
		{
			name:    "unknown log level",
			yaml:    "log:\n  level: chatty\n",
			wantErr: ErrInvalidLogLevel,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
			},
		},
		{
			name:    "unknown log format",
			yaml:    "log:\n  format: xml\n",
			wantErr: ErrInvalidLogFormat,
		},
		{
			name:    "relative share location",
			yaml:    "share:\n  location: /badge\n",
			wantErr: ErrInvalidShareLocation,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultShareLocation, cfg.Share.Location)
			},
		},
		{
			name:    "zero workers",
			yaml:    "assets:\n  workers: 0\n",
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "zero max bytes",
			yaml:    "assets:\n  max_bytes: 0\n",
			wantErr: ErrInvalidMaxBytes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := Load(writeConfig(t, tt.yaml))
			require.NotNil(t, cfg)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], tt.wantErr)
			if tt.check != nil {
				tt.check(t, cfg)
			}
			assert.Empty(t, cfg.Validate(), "validated config must be stable")
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, errs := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Nil(t, cfg)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "failed to load config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		cfg, errs := Load(writeConfig(t, "window: [unclosed\n"))
		assert.Nil(t, cfg)
		assert.NotEmpty(t, errs)
	})
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "OXY_BADGE_WINDOW_WIDTH", EnvName("window.width"))
	assert.Equal(t, "OXY_BADGE_SHARE_INITIAL_LINK", EnvName("share.initial_link"))
}

func TestNewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level, cfg.Log.Format = "debug", "json"

		var buf bytes.Buffer
		cfg.NewLogger(&buf).Debug("hello", "k", 1)
		assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("text at warn drops info", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level = "warn"

		var buf bytes.Buffer
		logger := cfg.NewLogger(&buf)
		logger.Info("quiet")
		logger.Warn("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "level=WARN")
		assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
	})
}

func TestLogAttrs(t *testing.T) {
	attrs := Default().LogAttrs()
	require.Zero(t, len(attrs)%2)
	assert.Contains(t, attrs, "1280x800")
}
