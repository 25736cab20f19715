package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jfreymuth/oggvorbis"
	"github.com/spf13/cobra"

	"github.com/haivivi/pcmtoogg/pkg/audio/codec/ogg"
	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
	"github.com/haivivi/pcmtoogg/pkg/cli"
)

var (
	inspectDecode bool
	inspectDump   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ogg>",
	Short: "List the pages of an Ogg/Vorbis file",
	Long: `List the pages of an Ogg/Vorbis file.

With --decode the stream is also decoded and the audio is summarized.
--dump writes the decoded audio to a 16-bit WAV file, or to raw f32le when
the file name does not end in .wav.`,
	Example: `  pcmtoogg inspect speech.ogg
  pcmtoogg inspect speech.ogg --decode --format json
  pcmtoogg inspect speech.ogg --dump speech.decoded.wav
  pcmtoogg inspect speech.ogg --dump speech.f32`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectDecode, "decode", "d", false, "decode the stream and report audio statistics")
	inspectCmd.Flags().StringVar(&inspectDump, "dump", "", "write decoded audio to this WAV or f32le file (implies --decode)")
	rootCmd.AddCommand(inspectCmd)
}

type pageInfo struct {
	Seq      int64  `json:"seq" yaml:"seq"`
	Serial   int32  `json:"serial" yaml:"serial"`
	Granule  int64  `json:"granule" yaml:"granule"`
	Flags    string `json:"flags" yaml:"flags"`
	Packets  int    `json:"packets" yaml:"packets"`
	Header   int    `json:"header" yaml:"header"`
	Body     int    `json:"body" yaml:"body"`
	Checksum string `json:"checksum" yaml:"checksum"`
}

// streamInfo summarizes one logical bitstream after its pages were fed
// through libogg's packet reassembly.
type streamInfo struct {
	Serial   int32  `json:"serial" yaml:"serial"`
	Codec    string `json:"codec" yaml:"codec"`
	Pages    int    `json:"pages" yaml:"pages"`
	Packets  int    `json:"packets" yaml:"packets"`
	Bytes    int64  `json:"bytes" yaml:"bytes"`
	Granule  int64  `json:"granule" yaml:"granule"`
	Holes    int    `json:"holes,omitempty" yaml:"holes,omitempty"`
	Complete bool   `json:"complete" yaml:"complete"`
}

// codecName identifies a stream from its first packet.
func codecName(first []byte) string {
	switch {
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		return "vorbis"
	case bytes.HasPrefix(first, []byte("OpusHead")):
		return "opus"
	case len(first) >= 5 && first[0] == 0x7F && string(first[1:5]) == "FLAC":
		return "flac"
	case bytes.HasPrefix(first, []byte("Speex   ")):
		return "speex"
	case len(first) >= 7 && first[0] == 0x80 && string(first[1:7]) == "theora":
		return "theora"
	}
	return "unknown"
}

type decodeInfo struct {
	Vendor     string   `json:"vendor" yaml:"vendor"`
	Comments   []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	Channels   int      `json:"channels" yaml:"channels"`
	SampleRate int      `json:"sample_rate" yaml:"sample_rate"`
	Frames     int64    `json:"frames" yaml:"frames"`
	Duration   string   `json:"duration" yaml:"duration"`
	Bitrate    string   `json:"bitrate" yaml:"bitrate"`
	Peak       float32  `json:"peak" yaml:"peak"`
	RMS        float64  `json:"rms" yaml:"rms"`
}

type inspectResult struct {
	File    string       `json:"file" yaml:"file"`
	Size    int64        `json:"size" yaml:"size"`
	Pages   []pageInfo   `json:"pages" yaml:"pages"`
	Streams []streamInfo `json:"streams" yaml:"streams"`
	Resyncs int          `json:"resyncs" yaml:"resyncs"`
	// Framing is "ok" when the file is nothing but whole pages back to back.
	Framing string      `json:"framing" yaml:"framing"`
	Decode  *decodeInfo `json:"decode,omitempty" yaml:"decode,omitempty"`
}

func (r inspectResult) Table() cli.Table {
	t := cli.Table{
		Title:   r.File,
		Headers: []string{"SEQ", "SERIAL", "GRANULE", "FLAGS", "PACKETS", "HEADER", "BODY", "CRC"},
		Footer:  fmt.Sprintf("%d pages, %s, framing %s", len(r.Pages), cli.FormatBytes(r.Size), r.Framing),
	}
	for _, p := range r.Pages {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(p.Seq, 10),
			strconv.FormatInt(int64(p.Serial), 10),
			strconv.FormatInt(p.Granule, 10),
			p.Flags,
			strconv.Itoa(p.Packets),
			strconv.Itoa(p.Header),
			strconv.Itoa(p.Body),
			p.Checksum,
		})
	}
	if r.Resyncs > 0 {
		t.Footer += fmt.Sprintf(", lost capture %d times", r.Resyncs)
	}
	for _, s := range r.Streams {
		state := "complete"
		if !s.Complete {
			state = "no end of stream"
		}
		t.Footer += fmt.Sprintf("\nstream %d (%s): %d pages, %s packets, %s, granule %d, %s",
			s.Serial, s.Codec, s.Pages, cli.FormatCount(int64(s.Packets)), cli.FormatBytes(s.Bytes), s.Granule, state)
		if s.Holes > 0 {
			t.Footer += fmt.Sprintf(", %d holes", s.Holes)
		}
	}
	if d := r.Decode; d != nil {
		t.Footer += fmt.Sprintf("\n%s, %s frames, %s, %s, peak %.3f, rms %.3f, vendor %q",
			pcm.Format{SampleRate: d.SampleRate, Channels: d.Channels},
			cli.FormatCount(d.Frames), d.Duration, d.Bitrate, d.Peak, d.RMS, d.Vendor)
		for _, c := range d.Comments {
			t.Footer += "\n  " + c
		}
	}
	return t
}

// pageFlags renders the header type flags, "-" when none are set.
func pageFlags(continued, bos, eos bool) string {
	var flags []string
	if continued {
		flags = append(flags, "cont")
	}
	if bos {
		flags = append(flags, "bos")
	}
	if eos {
		flags = append(flags, "eos")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// walkPages reads every page with libogg and reassembles the packets of
// each logical stream.
func walkPages(data []byte, result *inspectResult) error {
	dec, err := ogg.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer dec.Close()

	var serials []int32
	streams := make(map[int32]*ogg.StreamState)
	infos := make(map[int32]*streamInfo)
	defer func() {
		for _, s := range streams {
			s.Clear()
		}
	}()

	var packet ogg.Packet
	for {
		page, err := dec.ReadPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		pd := page.Data()
		serial := page.SerialNo()
		result.Pages = append(result.Pages, pageInfo{
			Seq:      page.PageNo(),
			Serial:   serial,
			Granule:  page.GranulePos(),
			Flags:    pageFlags(pd.IsContinued(), page.IsBOS(), page.IsEOS()),
			Packets:  page.Packets(),
			Header:   len(pd.Header),
			Body:     len(pd.Body),
			Checksum: fmt.Sprintf("%08x", pd.Checksum()),
		})

		stream, ok := streams[serial]
		if !ok {
			if stream, err = ogg.NewStreamState(serial); err != nil {
				return err
			}
			streams[serial] = stream
			infos[serial] = &streamInfo{Serial: serial, Codec: "unknown"}
			serials = append(serials, serial)
		}
		info := infos[serial]
		info.Pages++
		if err := stream.PageIn(page); err != nil {
			return fmt.Errorf("page %d of stream %d: %w", page.PageNo(), serial, err)
		}
		for {
			err := stream.PacketOut(&packet)
			if errors.Is(err, ogg.ErrNoPacket) {
				break
			}
			if errors.Is(err, ogg.ErrHole) {
				info.Holes++
				continue
			}
			if err != nil {
				return err
			}
			info.Packets++
			info.Bytes += packet.Bytes()
			if packet.BOS() {
				info.Codec = codecName(packet.Data())
			}
			if g := packet.GranulePos(); g >= 0 {
				info.Granule = g
			}
		}
	}

	result.Resyncs = dec.Resyncs()
	for _, serial := range serials {
		info := infos[serial]
		info.Complete = streams[serial].EOS()
		result.Streams = append(result.Streams, *info)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result := inspectResult{File: path, Size: int64(len(data)), Framing: "ok"}
	if err := walkPages(data, &result); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(result.Pages) == 0 {
		return fmt.Errorf("%s: no Ogg pages found", path)
	}
	if _, err := ogg.SplitPages(data); err != nil {
		result.Framing = err.Error()
	}

	if inspectDecode || inspectDump != "" {
		info, samples, format, err := decodeVorbis(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		result.Decode = info
		if inspectDump != "" {
			if err := writeDump(inspectDump, samples, format); err != nil {
				return err
			}
			cli.PrintSuccess(os.Stderr, "decoded audio written to %s", inspectDump)
		}
	}
	return printResult(result)
}

// writeDump writes decoded audio as WAV or, for any other extension, raw
// f32le.
func writeDump(path string, samples []float32, f pcm.Format) error {
	if detectInputFormat("", path) == cli.InputWAV {
		return writeWAV(path, samples, f)
	}
	return cli.OutputBytes(pcm.EncodeFloat32LE(samples), path)
}

// decodeVorbis decodes a complete Ogg/Vorbis stream.
func decodeVorbis(data []byte) (*decodeInfo, []float32, pcm.Format, error) {
	header, err := oggvorbis.GetCommentHeader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, pcm.Format{}, fmt.Errorf("read comments: %w", err)
	}
	samples, vf, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, nil, pcm.Format{}, fmt.Errorf("decode: %w", err)
	}

	format := pcm.Format{SampleRate: vf.SampleRate, Channels: vf.Channels}
	frames := format.Frames(len(samples))
	duration := format.Duration(frames)
	info := &decodeInfo{
		Vendor:     header.Vendor,
		Comments:   header.Comments,
		Channels:   vf.Channels,
		SampleRate: vf.SampleRate,
		Frames:     int64(frames),
		Duration:   cli.FormatDuration(duration),
		Bitrate:    "-",
		Peak:       pcm.Peak(samples),
		RMS:        pcm.RMS(samples),
	}
	if duration > 0 {
		info.Bitrate = cli.FormatBitrate(float64(len(data)) * 8 / duration.Seconds())
	}
	return info, samples, format, nil
}
