// Package main is the entry point for the pcmtoogg CLI.
//
// Usage:
//
//	pcmtoogg [flags] <command> [subcommand] [args]
//
// Commands:
//
//	encode     - Encode WAV or raw float32 PCM to Ogg/Vorbis
//	inspect    - List the pages of an Ogg file and optionally decode it
//	preset     - Manage encoding presets (list, set, use, delete)
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/pcmtoogg/cmd/pcmtoogg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
