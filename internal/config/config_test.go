package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func newConfig(t *testing.T, dir string) *AppConfig {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	return New(dir, "test")
}

func TestNew_WritesTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	c := newConfig(t, dir)

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml was not written: %v", err)
	}

	cfg := c.Config
	if cfg.ThumbnailWidth != 300 || cfg.ThumbnailHeight != 400 || cfg.ThumbnailQuality != 85 {
		t.Errorf("thumbnail settings = %dx%d q%d, want 300x400 q85", cfg.ThumbnailWidth, cfg.ThumbnailHeight, cfg.ThumbnailQuality)
	}
	if cfg.NamingTemplate != "{manga:<.>} Ch. {num:3}{title: - <.>}" {
		t.Errorf("NamingTemplate = %q", cfg.NamingTemplate)
	}
	if cfg.LogLevel != "DEBUG" || cfg.LogMaxSize != 50 || cfg.LogMaxBackups != 3 {
		t.Errorf("log settings = %q %d %d", cfg.LogLevel, cfg.LogMaxSize, cfg.LogMaxBackups)
	}
	if cfg.DatabasePath == "" {
		t.Error("DatabasePath is empty, want a default")
	}
	if cfg.Version != "test" || cfg.ConfigPath != dir {
		t.Errorf("Version, ConfigPath = %q, %q", cfg.Version, cfg.ConfigPath)
	}

	src, ok := c.Source("manga")
	if !ok || src.Path != "/data/manga" {
		t.Errorf("Source(manga) = %+v, %v, want the template source", src, ok)
	}
}

func TestNew_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `databasePath: "/tmp/lib.db"
sources:
  Comics:
    path: "/srv/comics"
thumbnailWidth: 150
logLevel: "INFO"
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newConfig(t, dir)

	if c.Config.DatabasePath != "/tmp/lib.db" {
		t.Errorf("DatabasePath = %q", c.Config.DatabasePath)
	}
	if c.Config.ThumbnailWidth != 150 || c.Config.ThumbnailHeight != 400 {
		t.Errorf("thumbnail bounds = %dx%d, want 150x400", c.Config.ThumbnailWidth, c.Config.ThumbnailHeight)
	}
	if c.Config.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q", c.Config.LogLevel)
	}

	src, ok := c.Source("Comics")
	if !ok || src.Path != "/srv/comics" {
		t.Errorf("Source(Comics) = %+v, %v", src, ok)
	}
	if _, ok := c.Source("manga"); ok {
		t.Error("Source(manga) found, want only the configured source")
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"DATABASE_PATH", "/env/lib.db")
	t.Setenv(EnvPrefix+"THUMBNAIL_QUALITY", "60")
	t.Setenv(EnvPrefix+"THUMBNAIL_WIDTH", "-1")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "TRACE")

	c := newConfig(t, t.TempDir())

	if c.Config.DatabasePath != "/env/lib.db" {
		t.Errorf("DatabasePath = %q", c.Config.DatabasePath)
	}
	if c.Config.ThumbnailQuality != 60 {
		t.Errorf("ThumbnailQuality = %d, want 60", c.Config.ThumbnailQuality)
	}
	if c.Config.ThumbnailWidth != 300 {
		t.Errorf("ThumbnailWidth = %d, want invalid override ignored", c.Config.ThumbnailWidth)
	}
	if c.Config.LogLevel != "TRACE" {
		t.Errorf("LogLevel = %q", c.Config.LogLevel)
	}
}
