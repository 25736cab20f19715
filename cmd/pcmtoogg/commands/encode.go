package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
	"github.com/haivivi/pcmtoogg/pkg/audio/resampler"
	"github.com/haivivi/pcmtoogg/pkg/cli"
	"github.com/haivivi/pcmtoogg/pkg/pcmtoogg"
)

// encodeJob holds every encode setting. Presets, job files and flags are
// applied on top of each other in that order.
type encodeJob struct {
	Input       string   `json:"input,omitempty" yaml:"input,omitempty"`
	Output      string   `json:"output,omitempty" yaml:"output,omitempty"`
	InputFormat string   `json:"input_format,omitempty" yaml:"input_format,omitempty"`
	Channels    int      `json:"channels,omitempty" yaml:"channels,omitempty"`
	SampleRate  int      `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Quality     *float32 `json:"quality,omitempty" yaml:"quality,omitempty"`
	Resample    int      `json:"resample,omitempty" yaml:"resample,omitempty"`
	MaxOutput   string   `json:"max_output,omitempty" yaml:"max_output,omitempty"`
	Serial      *int32   `json:"serial,omitempty" yaml:"serial,omitempty"`
	Tone        float64  `json:"tone,omitempty" yaml:"tone,omitempty"`
	Duration    string   `json:"duration,omitempty" yaml:"duration,omitempty"`
}

const defaultQuality float32 = 0.5

var (
	encodeFlags   encodeJob
	encodeQuality float32
	encodeSerial  int32
	encodePreset  string
	encodeJobFile string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode PCM audio to Ogg/Vorbis",
	Long: `Encode a WAV file or raw little-endian float32 PCM to Ogg/Vorbis.

WAV files carry their own channel count and sample rate. Raw input needs
--channels and --rate, either as flags or from a preset. With --tone the
input is a generated sine wave instead of a file.

Settings are taken from the current preset (or --preset), then from a job
file (--job), then from flags.`,
	Example: `  pcmtoogg encode -i speech.wav
  pcmtoogg encode -i capture.f32 --channels 2 --rate 48000 -o capture.ogg
  pcmtoogg encode --tone 440 --duration 2s --channels 1 --rate 44100 -o a4.ogg
  pcmtoogg encode --job nightly.yaml`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	f := encodeCmd.Flags()
	f.StringVarP(&encodeFlags.Input, "input", "i", "", "input file (WAV or raw f32le, - for stdin)")
	f.StringVarP(&encodeFlags.Output, "output", "o", "", "output file (default: input with .ogg, - for stdout)")
	f.StringVar(&encodeFlags.InputFormat, "input-format", "", "input format: wav or f32le (default: from extension)")
	f.IntVar(&encodeFlags.Channels, "channels", 0, "channel count for raw input")
	f.IntVar(&encodeFlags.SampleRate, "rate", 0, "sample rate in Hz for raw input")
	f.Float32VarP(&encodeQuality, "quality", "q", defaultQuality, "VBR quality, -0.1 to 1.0")
	f.IntVar(&encodeFlags.Resample, "resample", 0, "resample to this rate before encoding")
	f.StringVar(&encodeFlags.MaxOutput, "max-size", "", "fail if the encoded stream grows past this size, e.g. 64MiB")
	f.Int32Var(&encodeSerial, "serial", 0, "fixed stream serial number (default: random)")
	f.Float64Var(&encodeFlags.Tone, "tone", 0, "encode a sine wave of this frequency instead of a file")
	f.StringVar(&encodeFlags.Duration, "duration", "1s", "length of the --tone signal")
	f.StringVarP(&encodePreset, "preset", "p", "", "preset name (default: current preset)")
	f.StringVar(&encodeJobFile, "job", "", "job file (YAML or JSON, - for stdin)")
}

// resolveJob merges preset, job file and flags.
func resolveJob(cmd *cobra.Command) (encodeJob, error) {
	var job encodeJob

	cfg, err := GetConfig()
	if err != nil {
		if encodePreset != "" {
			return job, err
		}
		slog.Debug("presets unavailable", "error", err)
	} else {
		p, err := cfg.ResolvePreset(encodePreset)
		if err != nil {
			return job, err
		}
		if p != nil {
			slog.Debug("using preset", "name", p.Name)
			job = encodeJob{
				InputFormat: p.InputFormat,
				Channels:    p.Channels,
				SampleRate:  p.SampleRate,
				Resample:    p.Resample,
				MaxOutput:   p.MaxOutput,
			}
			if p.Quality != nil {
				q := *p.Quality
				job.Quality = &q
			}
		}
	}

	if encodeJobFile != "" {
		path := encodeJobFile
		if path != "-" {
			if paths, err := cli.NewPaths(appName); err == nil {
				path = paths.JobPath(path)
			}
		}
		if err := cli.LoadRequest(path, &job); err != nil {
			return job, fmt.Errorf("job %s: %w", encodeJobFile, err)
		}
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("input", func() { job.Input = encodeFlags.Input })
	set("output", func() { job.Output = encodeFlags.Output })
	set("input-format", func() { job.InputFormat = encodeFlags.InputFormat })
	set("channels", func() { job.Channels = encodeFlags.Channels })
	set("rate", func() { job.SampleRate = encodeFlags.SampleRate })
	set("quality", func() { job.Quality = &encodeQuality })
	set("resample", func() { job.Resample = encodeFlags.Resample })
	set("max-size", func() { job.MaxOutput = encodeFlags.MaxOutput })
	set("serial", func() { job.Serial = &encodeSerial })
	set("tone", func() { job.Tone = encodeFlags.Tone })
	set("duration", func() { job.Duration = encodeFlags.Duration })

	if job.Quality == nil {
		q := defaultQuality
		job.Quality = &q
	}
	return job, nil
}

// loadInput returns the samples to encode and their format.
func loadInput(job encodeJob) ([]float32, pcm.Format, error) {
	if job.Tone > 0 {
		f := pcm.Format{SampleRate: job.SampleRate, Channels: job.Channels}
		if f.Channels == 0 {
			f.Channels = 1
		}
		if f.SampleRate == 0 {
			f.SampleRate = 44100
		}
		d := time.Second
		if job.Duration != "" {
			var err error
			if d, err = time.ParseDuration(job.Duration); err != nil {
				return nil, f, fmt.Errorf("invalid duration: %w", err)
			}
		}
		return f.Tone(job.Tone, 0.5, d), f, nil
	}

	if job.Input == "" {
		return nil, pcm.Format{}, errors.New("an input file (-i) or --tone is required")
	}

	switch format := detectInputFormat(job.InputFormat, job.Input); format {
	case cli.InputWAV:
		return readWAV(job.Input)
	case cli.InputF32LE:
		f := pcm.Format{SampleRate: job.SampleRate, Channels: job.Channels}
		if f.Channels == 0 || f.SampleRate == 0 {
			return nil, f, errors.New("raw f32le input needs --channels and --rate (or a preset)")
		}
		samples, err := readF32LE(job.Input)
		return samples, f, err
	default:
		return nil, pcm.Format{}, fmt.Errorf("unknown input format %q", format)
	}
}

// outputPath derives the output file name when none is given.
func outputPath(job encodeJob) (string, error) {
	if job.Output != "" {
		return job.Output, nil
	}
	if job.Input == "" || job.Input == "-" {
		return "", errors.New("an output file (-o) is required")
	}
	return strings.TrimSuffix(job.Input, filepath.Ext(job.Input)) + ".ogg", nil
}

type encodeResult struct {
	Input      string  `json:"input" yaml:"input"`
	Output     string  `json:"output" yaml:"output"`
	Channels   int     `json:"channels" yaml:"channels"`
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Quality    float32 `json:"quality" yaml:"quality"`
	Frames     int64   `json:"frames" yaml:"frames"`
	Duration   string  `json:"duration" yaml:"duration"`
	Serial     int32   `json:"serial" yaml:"serial"`
	Pages      int     `json:"pages" yaml:"pages"`
	Bytes      int     `json:"bytes" yaml:"bytes"`
	Bitrate    string  `json:"bitrate" yaml:"bitrate"`
	Ratio      string  `json:"ratio" yaml:"ratio"`
}

func (r encodeResult) Table() cli.Table {
	return cli.KeyValues("encoded "+r.Output,
		[2]string{"input", r.Input},
		[2]string{"format", pcm.Format{SampleRate: r.SampleRate, Channels: r.Channels}.String()},
		[2]string{"quality", strconv.FormatFloat(float64(r.Quality), 'f', -1, 32)},
		[2]string{"frames", cli.FormatCount(r.Frames)},
		[2]string{"duration", r.Duration},
		[2]string{"serial", strconv.FormatInt(int64(r.Serial), 10)},
		[2]string{"pages", strconv.Itoa(r.Pages)},
		[2]string{"size", cli.FormatBytesInt(r.Bytes)},
		[2]string{"bitrate", r.Bitrate},
		[2]string{"ratio", r.Ratio},
	)
}

func runEncode(cmd *cobra.Command, args []string) error {
	job, err := resolveJob(cmd)
	if err != nil {
		return err
	}

	samples, format, err := loadInput(job)
	if err != nil {
		return err
	}
	if job.Resample > 0 && job.Resample != format.SampleRate {
		slog.Debug("resampling", "from", format.SampleRate, "to", job.Resample)
		if samples, err = resampler.Resample(samples, format, job.Resample); err != nil {
			return err
		}
		format.SampleRate = job.Resample
	}

	output, err := outputPath(job)
	if err != nil {
		return err
	}

	opts := []pcmtoogg.Option{pcmtoogg.WithLogger(slog.Default())}
	if job.MaxOutput != "" {
		limit, err := cli.ParseSize(job.MaxOutput)
		if err != nil {
			return err
		}
		opts = append(opts, pcmtoogg.WithMaxOutputSize(limit))
	}
	if job.Serial != nil {
		opts = append(opts, pcmtoogg.WithSerialSource(pcmtoogg.FixedSerial(*job.Serial)))
	}

	start := time.Now()
	out, err := pcmtoogg.EncodeRequest(pcmtoogg.Request{
		PCM:        samples,
		Samples:    len(samples),
		Channels:   format.Channels,
		SampleRate: format.SampleRate,
		Quality:    *job.Quality,
	}, opts...)
	if err != nil {
		return err
	}
	defer out.Release()
	slog.Debug("encode finished", "elapsed", time.Since(start), "bytes", out.Size())

	if output == "-" {
		_, err := out.WriteTo(os.Stdout)
		return err
	}
	if err := cli.OutputBytes(out.Data(), output); err != nil {
		return err
	}

	frames := int64(format.Frames(len(samples)))
	duration := format.Duration(int(frames))
	input := job.Input
	if job.Tone > 0 {
		input = fmt.Sprintf("tone %g Hz", job.Tone)
	}
	result := encodeResult{
		Input:      input,
		Output:     output,
		Channels:   format.Channels,
		SampleRate: format.SampleRate,
		Quality:    *job.Quality,
		Frames:     frames,
		Duration:   cli.FormatDuration(duration),
		Serial:     out.SerialNo(),
		Pages:      out.Pages(),
		Bytes:      out.Size(),
		Bitrate:    "-",
		Ratio:      "-",
	}
	if duration > 0 && out.Size() > 0 {
		bitrate := float64(out.Size()) * 8 / duration.Seconds()
		result.Bitrate = cli.FormatBitrate(bitrate)
		// Compared against the f32le input rate.
		result.Ratio = fmt.Sprintf("%.1f:1", float64(format.BytesRate())*8/bitrate)
	}
	return printResult(result)
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
