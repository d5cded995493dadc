// Package buildinfo carries the release a binary was built from.
//
// The variables are stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/peerplot/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/peerplot/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/peerplot/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Version also scopes artifact cache keys, so a new release never serves
// plots drawn by an older renderer.
package buildinfo

import "fmt"

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata reported by --version and GET /healthz.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the stamped build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return "peerplot " + i.details()
}

func (i Info) details() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().details() + "\n"
}

// Short returns "peerplot/{version}" for the HTTP Server header.
func Short() string {
	return "peerplot/" + Version
}
