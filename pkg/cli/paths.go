package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths provides access to an app's directory structure
type Paths struct {
	// AppName is the application name
	AppName string

	// AppDir is the resolved app directory
	AppDir string
}

// ConfigDirEnv returns the environment variable that overrides the app
// directory, e.g. PCMTOOGG_CONFIG_DIR.
func ConfigDirEnv(appName string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(appName))
	return name + "_CONFIG_DIR"
}

// NewPaths creates a new Paths instance for the given app. The app
// directory is $<APP>_CONFIG_DIR if set, otherwise <user config dir>/<app>.
func NewPaths(appName string) (*Paths, error) {
	if dir := os.Getenv(ConfigDirEnv(appName)); dir != "" {
		return &Paths{AppName: appName, AppDir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return &Paths{
		AppName: appName,
		AppDir:  filepath.Join(base, appName),
	}, nil
}

// ConfigFile returns the preset file path (<app dir>/presets.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir, DefaultConfigFile)
}

// JobsDir returns the directory searched for relative job files
// (<app dir>/jobs)
func (p *Paths) JobsDir() string {
	return filepath.Join(p.AppDir, "jobs")
}

// JobPath resolves a job file name. Absolute paths and paths that exist
// relative to the working directory are returned unchanged.
func (p *Paths) JobPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(p.JobsDir(), name)
}

// EnsureAppDir creates the app directory if it doesn't exist
func (p *Paths) EnsureAppDir() error {
	return os.MkdirAll(p.AppDir, 0755)
}
