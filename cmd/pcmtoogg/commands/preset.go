package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/pcmtoogg/pkg/cli"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage encoding presets",
	Long: `Manage named encoding presets.

A preset stores the settings raw input needs (channels, rate) together with
quality and the other encode options. The current preset is applied to every
encode unless --preset names another one.`,
}

var presetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List presets",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		list := presetList{Path: cfg.Path(), Current: cfg.Current}
		for _, name := range cfg.ListPresets() {
			list.Presets = append(list.Presets, cfg.Presets[name])
		}
		return printResult(list)
	},
}

var presetSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a preset",
	Long: `Create or update a preset. Only the given flags change an existing preset.`,
	Example: `  pcmtoogg preset set capture --channels 2 --rate 48000 --quality 0.6
  pcmtoogg preset set voice --quality 0.2 --resample 16000 --max-size 8MiB`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		p := &cli.Preset{}
		if old, ok := cfg.Presets[name]; ok {
			cp := *old
			p = &cp
		}

		flags := cmd.Flags()
		if flags.Changed("channels") {
			p.Channels, _ = flags.GetInt("channels")
		}
		if flags.Changed("rate") {
			p.SampleRate, _ = flags.GetInt("rate")
		}
		if flags.Changed("quality") {
			q, _ := flags.GetFloat32("quality")
			p.Quality = &q
		}
		if flags.Changed("input-format") {
			p.InputFormat, _ = flags.GetString("input-format")
		}
		if flags.Changed("resample") {
			p.Resample, _ = flags.GetInt("resample")
		}
		if flags.Changed("max-size") {
			p.MaxOutput, _ = flags.GetString("max-size")
		}

		if err := cfg.SetPreset(name, p); err != nil {
			return err
		}
		if use, _ := flags.GetBool("use"); use {
			if err := cfg.UsePreset(name); err != nil {
				return err
			}
		}
		cli.PrintSuccess(os.Stderr, "Preset %q saved", name)
		return printResult(p)
	},
}

var presetUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the current preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.UsePreset(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess(os.Stdout, "Switched to preset %q", args[0])
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a preset (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		p, err := cfg.ResolvePreset(name)
		if err != nil {
			return err
		}
		if p == nil {
			cli.PrintWarning(os.Stdout, "No current preset set")
			return nil
		}
		return printResult(p)
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a preset",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeletePreset(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess(os.Stdout, "Preset %q deleted", args[0])
		return nil
	},
}

type presetList struct {
	Path    string        `json:"path" yaml:"path"`
	Current string        `json:"current,omitempty" yaml:"current,omitempty"`
	Presets []*cli.Preset `json:"presets" yaml:"presets"`
}

func (l presetList) Table() cli.Table {
	t := cli.Table{
		Headers: []string{"CURRENT", "NAME", "CHANNELS", "RATE", "QUALITY", "INPUT", "RESAMPLE", "MAX SIZE"},
		Footer:  l.Path,
	}
	orDash := func(n int) string {
		if n == 0 {
			return "-"
		}
		return strconv.Itoa(n)
	}
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}
	quality := func(q *float32) string {
		if q == nil {
			return "default"
		}
		return strconv.FormatFloat(float64(*q), 'f', -1, 32)
	}
	for _, p := range l.Presets {
		current := ""
		if p.Name == l.Current {
			current = "*"
		}
		t.Rows = append(t.Rows, []string{
			current,
			p.Name,
			orDash(p.Channels),
			orDash(p.SampleRate),
			quality(p.Quality),
			orDefault(p.InputFormat, "auto"),
			orDash(p.Resample),
			orDefault(p.MaxOutput, "-"),
		})
	}
	return t
}

func init() {
	f := presetSetCmd.Flags()
	f.Int("channels", 0, "channel count for raw input")
	f.Int("rate", 0, "sample rate in Hz for raw input")
	f.Float32P("quality", "q", defaultQuality, "VBR quality, -0.1 to 1.0")
	f.String("input-format", "", "input format: wav or f32le")
	f.Int("resample", 0, "resample to this rate before encoding")
	f.String("max-size", "", "maximum encoded size, e.g. 64MiB")
	f.Bool("use", false, "make this the current preset")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSetCmd)
	presetCmd.AddCommand(presetUseCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	rootCmd.AddCommand(presetCmd)
}
