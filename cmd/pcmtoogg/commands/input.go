package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
	"github.com/haivivi/pcmtoogg/pkg/cli"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// detectInputFormat picks the input format from an explicit setting or the
// file extension.
func detectInputFormat(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return cli.InputWAV
	}
	return cli.InputF32LE
}

// readWAV loads an integer PCM WAV file as float32 samples.
func readWAV(path string) ([]float32, pcm.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pcm.Format{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, pcm.Format{}, fmt.Errorf("%s: not a valid WAV file", path)
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, pcm.Format{}, fmt.Errorf("%s: unsupported WAV format %d (only integer PCM)", path, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, pcm.Format{}, fmt.Errorf("%s: read PCM: %w", path, err)
	}
	samples, err := pcm.FromInts(buf.Data, int(d.BitDepth))
	if err != nil {
		return nil, pcm.Format{}, fmt.Errorf("%s: %w", path, err)
	}
	return samples, pcm.Format{SampleRate: int(d.SampleRate), Channels: int(d.NumChans)}, nil
}

// readF32LE loads raw little-endian float32 samples; "-" reads stdin.
func readF32LE(path string) ([]float32, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%s: size %d is not a multiple of 4 bytes", path, len(data))
	}
	return pcm.DecodeFloat32LE(data), nil
}

// writeWAV writes float32 samples as a 16-bit PCM WAV file.
func writeWAV(path string, samples []float32, f pcm.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(out, f.SampleRate, 16, f.Channels, wavFormatPCM)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(max(-1, min(1, s)) * 32767)
	}
	werr := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	return errors.Join(werr, enc.Close(), out.Close())
}
