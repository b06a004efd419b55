// Package buildinfo carries version metadata stamped at build time.
//
// Release builds override the defaults with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/archetype-cli/archetype/pkg/buildinfo.Version=v0.3.0 \
//	  -X github.com/archetype-cli/archetype/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/archetype-cli/archetype/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Set via ldflags; the defaults identify a local development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template for `archetype --version`.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
