package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/haivivi/pcmtoogg/cmd/pcmtoogg/internal/build"
	"github.com/haivivi/pcmtoogg/pkg/audio/codec/vorbis"
	"github.com/haivivi/pcmtoogg/pkg/cli"
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	Platform  string `json:"platform" yaml:"platform"`
	Go        string `json:"go" yaml:"go"`
	Libvorbis string `json:"libvorbis" yaml:"libvorbis"`
	Config    string `json:"config,omitempty" yaml:"config,omitempty"`
}

func (v versionInfo) Table() cli.Table {
	t := cli.KeyValues(build.String(),
		[2]string{"version", v.Version},
		[2]string{"commit", v.Commit},
		[2]string{"date", v.Date},
		[2]string{"platform", v.Platform},
		[2]string{"go", v.Go},
		[2]string{"libvorbis", v.Libvorbis},
	)
	if v.Config != "" {
		t.Rows = append(t.Rows, []string{"config", v.Config})
	}
	return t
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   build.Version,
			Commit:    build.Commit,
			Date:      build.Date,
			Platform:  build.Platform(),
			Go:        runtime.Version(),
			Libvorbis: vorbis.Version(),
		}
		if IsVerbose() {
			if cfg, err := GetConfig(); err == nil {
				info.Config = cfg.Path()
			} else {
				info.Config = "(unavailable: " + err.Error() + ")"
			}
		}
		return printResult(info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
