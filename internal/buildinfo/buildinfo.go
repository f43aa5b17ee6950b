package buildinfo

// set via ldflags, e.g. -X mangashelf/internal/buildinfo.Version=v0.1.0
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)
