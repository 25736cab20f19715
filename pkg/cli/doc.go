// Package cli provides common CLI utilities for the pcmtoogg command-line
// tool.
//
// This package includes:
//   - Encoding presets stored in a YAML file
//   - Output formatting (JSON, YAML, table)
//   - Job file loading (YAML/JSON)
//   - Human-readable sizes, durations and bitrates
//
// Presets are stored in <user config dir>/pcmtoogg/presets.yaml. Setting
// PCMTOOGG_CONFIG_DIR moves the directory.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("pcmtoogg")
//
//	// Preset by name, or the current one when name is empty
//	p, err := cfg.ResolvePreset(name)
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatTable,
//	    File:   outputPath,
//	})
package cli
