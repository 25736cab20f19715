// Package build holds build-time version information injected via ldflags.
//
// To inject values at build time:
//
//	go build -ldflags "-X github.com/haivivi/pcmtoogg/cmd/pcmtoogg/internal/build.Version=v1.0.0 \
//	  -X github.com/haivivi/pcmtoogg/cmd/pcmtoogg/internal/build.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/haivivi/pcmtoogg/cmd/pcmtoogg/internal/build.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package build

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Platform returns GOOS/GOARCH.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("pcmtoogg %s (%s) built %s %s", Version, Commit, Date, Platform())
}
