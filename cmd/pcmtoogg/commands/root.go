package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/pcmtoogg/pkg/cli"
)

const appName = "pcmtoogg"

var (
	// Global flags
	verbose      bool
	formatOutput string
	configPath   string

	// Preset file, loaded on first use
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "pcmtoogg",
	Short: "Encode float32 PCM audio to Ogg/Vorbis",
	Long: `pcmtoogg - encode interleaved float32 PCM to Ogg/Vorbis with libvorbis.

Inputs are WAV files (integer PCM) or raw little-endian float32 samples.
The whole stream is encoded in memory and written out at the end.

Presets are stored in the OS config directory:
  macOS:   ~/Library/Application Support/pcmtoogg/presets.yaml
  Linux:   ~/.config/pcmtoogg/presets.yaml
  Windows: %AppData%/pcmtoogg/presets.yaml
Set PCMTOOGG_CONFIG_DIR or pass --config to use another location.

Examples:
  # Encode a WAV file
  pcmtoogg encode -i speech.wav -o speech.ogg --quality 0.3

  # Encode raw stereo float32 at 48 kHz
  pcmtoogg encode -i capture.f32 --channels 2 --rate 48000 -o capture.ogg

  # Save the raw settings as a preset and make it current
  pcmtoogg preset set capture --channels 2 --rate 48000 --quality 0.6
  pcmtoogg preset use capture

  # Check the result
  pcmtoogg inspect capture.ogg --decode`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cli.ParseFormat(formatOutput); err != nil {
			return err
		}
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "table", "output format (yaml, json, table)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "preset file (default <config dir>/pcmtoogg/presets.yaml)")
}

// setupLogging installs a text handler on stderr; --verbose enables debug.
func setupLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// GetConfig returns the preset file, loading it on first use.
func GetConfig() (*cli.Config, error) {
	if globalConfig != nil && (configPath == "" || globalConfig.Path() == configPath) {
		return globalConfig, nil
	}
	cfg, err := cli.LoadConfigWithPath(appName, configPath)
	if err != nil {
		return nil, fmt.Errorf("config not available: %w", err)
	}
	globalConfig = cfg
	return cfg, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// printResult writes result to stdout in the selected format.
func printResult(result any) error {
	format, err := cli.ParseFormat(formatOutput)
	if err != nil {
		return err
	}
	return cli.Output(result, cli.OutputOptions{Format: format})
}
