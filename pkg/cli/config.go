package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultConfigFile is the default preset filename
	DefaultConfigFile = "presets.yaml"
)

// Input formats understood by the encode command.
const (
	InputWAV   = "wav"
	InputF32LE = "f32le"
)

// ErrNoPreset is returned when a preset lookup fails.
var ErrNoPreset = errors.New("cli: preset not found")

// Config is the preset file of a CLI app
type Config struct {
	// AppName is the application name
	AppName string `yaml:"-"`

	// Current is the name of the preset used when none is given
	Current string `yaml:"current,omitempty"`

	// Presets is a map of preset name to encoding settings
	Presets map[string]*Preset `yaml:"presets,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Preset is a named set of encoding settings
type Preset struct {
	// Name is the preset name
	Name string `json:"name" yaml:"name"`

	// Channels is the channel count for raw input (optional for WAV)
	Channels int `json:"channels,omitempty" yaml:"channels,omitempty"`

	// SampleRate is the sample rate in Hz for raw input (optional for WAV)
	SampleRate int `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`

	// Quality is the VBR quality, nominally -0.1 to 1.0 (optional, the
	// encoder default when unset)
	Quality *float32 `json:"quality,omitempty" yaml:"quality,omitempty"`

	// InputFormat is "wav" or "f32le" (optional, guessed from extension)
	InputFormat string `json:"input_format,omitempty" yaml:"input_format,omitempty"`

	// Resample converts the input to this rate before encoding (optional)
	Resample int `json:"resample,omitempty" yaml:"resample,omitempty"`

	// MaxOutput caps the encoded size, e.g. "64MiB" (optional)
	MaxOutput string `json:"max_output,omitempty" yaml:"max_output,omitempty"`
}

// Validate checks the fields that have values.
func (p *Preset) Validate() error {
	if p.Channels < 0 {
		return fmt.Errorf("invalid channels %d", p.Channels)
	}
	if p.SampleRate < 0 {
		return fmt.Errorf("invalid sample rate %d", p.SampleRate)
	}
	if p.Resample < 0 {
		return fmt.Errorf("invalid resample rate %d", p.Resample)
	}
	switch p.InputFormat {
	case "", InputWAV, InputF32LE:
	default:
		return fmt.Errorf("unknown input format %q", p.InputFormat)
	}
	if p.MaxOutput != "" {
		if _, err := ParseSize(p.MaxOutput); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads the preset file for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads the preset file from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, err
		}
		configPath = paths.ConfigFile()
	}

	cfg := &Config{
		AppName:    appName,
		Presets:    make(map[string]*Preset),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing saved yet; the file is created on first Save
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Presets == nil {
		cfg.Presets = make(map[string]*Preset)
	}
	for name, p := range cfg.Presets {
		if p == nil {
			delete(cfg.Presets, name)
			continue
		}
		p.Name = name
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// SetPreset adds or replaces a preset
func (c *Config) SetPreset(name string, p *Preset) error {
	if name == "" {
		return errors.New("preset name is required")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	p.Name = name
	c.Presets[name] = p
	return c.Save()
}

// DeletePreset removes a preset
func (c *Config) DeletePreset(name string) error {
	if _, ok := c.Presets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoPreset, name)
	}
	delete(c.Presets, name)
	if c.Current == name {
		c.Current = ""
	}
	return c.Save()
}

// UsePreset sets the current preset
func (c *Config) UsePreset(name string) error {
	if _, ok := c.Presets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoPreset, name)
	}
	c.Current = name
	return c.Save()
}

// GetPreset returns a specific preset
func (c *Config) GetPreset(name string) (*Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPreset, name)
	}
	return p, nil
}

// GetCurrentPreset returns the current preset, or nil if none is set
func (c *Config) GetCurrentPreset() (*Preset, error) {
	if c.Current == "" {
		return nil, nil
	}
	return c.GetPreset(c.Current)
}

// ResolvePreset returns the preset by name, or the current preset if name
// is empty. With no name and no current preset it returns nil, nil.
func (c *Config) ResolvePreset(name string) (*Preset, error) {
	if name == "" {
		return c.GetCurrentPreset()
	}
	return c.GetPreset(name)
}

// ListPresets returns all preset names in order
func (c *Config) ListPresets() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
