package config

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"mangashelf/internal/domain"
	"mangashelf/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "MANGASHELF__"

var configTemplate = `# config.yaml

# Database Path
# SQLite file the scanner writes the library index to.
#
# Default: "<user config dir>/mangashelf/library.db"
#
#databasePath: ""

# Sources
# Library roots to scan. Each direct subdirectory of a source is one manga,
# each archive (.cbz/.zip) or image folder inside a manga is one chapter.
#
sources:
  # Name used on the command line, e.g. "mangashelf scan manga"
  #
  manga:
    # Root directory of the source
    #
    path: "/data/manga"

# Thumbnail bounds in pixels
#
# Default: 300 x 400
#
thumbnailWidth: 300
thumbnailHeight: 400

# Thumbnail JPEG quality (1-100)
#
# Default: 85
#
thumbnailQuality: 85

# Naming Template
# Used by the export command to name exported chapters.
# The default results in something like this: Manga Ch. 001 - Chapter Title
#
# Default: {manga:<.>} Ch. {num:3}{title: - <.>}
#
namingTemplate: "{manga:<.>} Ch. {num:3}{title: - <.>}"

# Metrics Textfile
# If set, metrics are written here after each command in the node_exporter
# textfile format.
#
# Optional
#
#metricsTextfile: ""

# mangashelf logs file
# If not defined, logs to stderr
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/mangashelf.log", "C:/mangashelf/logs/mangashelf.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "DEBUG"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "DEBUG"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups: 3
`

func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
		return errors.Wrapf(err, "could not create config dir %s", configPath)
	}

	if _, err := os.Stat(cfgPath); !errors.Is(err, os.ErrNotExist) {
		return nil
	}

	f, err := os.Create(cfgPath)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", cfgPath)
	}
	defer f.Close()

	if _, err = f.WriteString(configTemplate); err != nil {
		return errors.Wrapf(err, "could not write %s", cfgPath)
	}

	return f.Sync()
}

type Config interface {
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	m      *sync.Mutex
}

// New loads config.yaml from configPath, writing the template there first
// if it does not exist, or searches the default locations when configPath
// is empty. Environment variables override the file.
func New(configPath string, version string) *AppConfig {
	c := &AppConfig{
		m: new(sync.Mutex),
	}
	c.defaults()
	c.Config = &domain.Config{
		Version:    version,
		ConfigPath: configPath,
	}

	c.load(configPath)
	c.loadFromEnv()

	if c.Config.DatabasePath == "" {
		c.Config.DatabasePath = defaultDatabasePath()
	}

	return c
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}

	return filepath.Join(dir, "mangashelf", "library.db")
}

func (c *AppConfig) defaults() {
	viper.SetDefault("databasePath", "")
	viper.SetDefault("sources", make(map[string]*domain.SourceConfig))
	viper.SetDefault("thumbnailWidth", 300)
	viper.SetDefault("thumbnailHeight", 400)
	viper.SetDefault("thumbnailQuality", 85)
	viper.SetDefault("namingTemplate", "{manga:<.>} Ch. {num:3}{title: - <.>}")
	viper.SetDefault("metricsTextfile", "")
	viper.SetDefault("logPath", "")
	viper.SetDefault("logLevel", "DEBUG")
	viper.SetDefault("logMaxSize", 50)
	viper.SetDefault("logMaxBackups", 3)
}

func (c *AppConfig) loadFromEnv() {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || value == "" || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		switch strings.TrimPrefix(key, EnvPrefix) {
		case "DATABASE_PATH":
			c.Config.DatabasePath = value
		case "NAMING_TEMPLATE":
			c.Config.NamingTemplate = value
		case "THUMBNAIL_WIDTH":
			setPositive(&c.Config.ThumbnailWidth, value)
		case "THUMBNAIL_HEIGHT":
			setPositive(&c.Config.ThumbnailHeight, value)
		case "THUMBNAIL_QUALITY":
			setPositive(&c.Config.ThumbnailQuality, value)
		case "METRICS_TEXTFILE":
			c.Config.MetricsTextfile = value
		case "LOG_LEVEL":
			c.Config.LogLevel = value
		case "LOG_PATH":
			c.Config.LogPath = value
		case "LOG_MAX_SIZE":
			setPositive(&c.Config.LogMaxSize, value)
		case "LOG_MAX_BACKUPS":
			setPositive(&c.Config.LogMaxBackups, value)
		}
	}
}

func setPositive(dst *int, value string) {
	if i, _ := strconv.ParseInt(value, 10, 32); i > 0 {
		*dst = int(i)
	}
}

func (c *AppConfig) load(configPath string) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		// clean trailing slash from configPath
		configPath = path.Clean(configPath)

		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		viper.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		viper.SetConfigName("config")

		// Search config in directories
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/mangashelf")
		viper.AddConfigPath("$HOME/.mangashelf")
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config read error: %q", err)
	}

	if err := viper.Unmarshal(c.Config); err != nil {
		log.Fatalf("Could not unmarshal config file: %v: err %q", viper.ConfigFileUsed(), err)
	}
}

// DynamicReload applies log level and log path changes made to the config
// file while a command is running.
func (c *AppConfig) DynamicReload(log logger.Logger) {
	viper.WatchConfig()

	viper.OnConfigChange(func(_ fsnotify.Event) {
		c.m.Lock()
		defer c.m.Unlock()

		c.Config.LogLevel = viper.GetString("logLevel")
		log.SetLogLevel(c.Config.LogLevel)

		c.Config.LogPath = viper.GetString("logPath")

		log.Debug().Msg("config file reloaded!")
	})
}

// Source returns the configured source called name. Viper lower-cases map
// keys, so the lookup is case-insensitive.
func (c *AppConfig) Source(name string) (*domain.SourceConfig, bool) {
	c.m.Lock()
	defer c.m.Unlock()

	src, ok := c.Config.Sources[strings.ToLower(name)]
	if !ok || src == nil {
		return nil, false
	}

	return src, true
}
