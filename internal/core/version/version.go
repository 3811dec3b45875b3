// Package version reports build metadata stamped at link time
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information
// set with -ldflags "-X 'ytchat/internal/core/version.version=v0.1.0' -X 'ytchat/internal/core/version.commit=abcd'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "ytchat",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
