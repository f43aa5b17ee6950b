package domain

type Config struct {
	Version          string
	ConfigPath       string
	DatabasePath     string                   `yaml:"databasePath"`
	Sources          map[string]*SourceConfig `yaml:"sources"`
	ThumbnailWidth   int                      `yaml:"thumbnailWidth"`
	ThumbnailHeight  int                      `yaml:"thumbnailHeight"`
	ThumbnailQuality int                      `yaml:"thumbnailQuality"`
	NamingTemplate   string                   `yaml:"namingTemplate"`
	MetricsTextfile  string                   `yaml:"metricsTextfile"`
	LogPath          string                   `yaml:"logPath"`
	LogLevel         string                   `yaml:"LogLevel"`
	LogMaxSize       int                      `yaml:"logMaxSize"` // in megabytes
	LogMaxBackups    int                      `yaml:"logMaxBackups"`
}

type SourceConfig struct {
	Path string `yaml:"path"`
}
