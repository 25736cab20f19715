// Package vorbis provides Go bindings for the libvorbis analysis (encoder)
// side and the libvorbisenc VBR setup.
//
// An Encoder owns the four pieces of libvorbis state (info, comment, dsp
// and block) in a single C allocation and releases them in reverse order of
// acquisition. Packets are copied into Go memory as ogg.Packet values, ready
// for ogg.StreamState.PacketIn.
//
// Typical use:
//
//	enc, err := vorbis.NewEncoder(2, 44100, 0.5, vorbis.Comment{Tag: "ENCODER", Value: "me"})
//	if err != nil {
//	    return err
//	}
//	defer enc.Close()
//
//	headers, err := enc.HeaderOut()
//	// ... PacketIn the headers, flush pages ...
//
//	buf, _ := enc.Buffer(n)
//	// ... fill buf[channel][frame] ...
//	enc.Wrote(n)
//	for pkt, err := range enc.Packets() {
//	    // ... PacketIn, PageOut ...
//	}
package vorbis

/*
#cgo pkg-config: vorbisenc vorbis ogg
#include <vorbis/codec.h>
#include <vorbis/vorbisenc.h>
#include <stdlib.h>
#include <string.h>

enum {
    STAGE_INFO    = 1,
    STAGE_COMMENT = 2,
    STAGE_DSP     = 3,
    STAGE_BLOCK   = 4,
};

typedef struct {
    vorbis_info      vi;
    vorbis_comment   vc;
    vorbis_dsp_state vd;
    vorbis_block     vb;
    int              stage;
} enc_state;

static enc_state* enc_alloc() {
    enc_state *st = (enc_state*)calloc(1, sizeof(enc_state));
    if (st) {
        vorbis_info_init(&st->vi);
        st->stage = STAGE_INFO;
    }
    return st;
}

// enc_free tears down whatever was set up, newest first.
static void enc_free(enc_state *st) {
    if (!st) return;
    if (st->stage >= STAGE_BLOCK) vorbis_block_clear(&st->vb);
    if (st->stage >= STAGE_DSP) vorbis_dsp_clear(&st->vd);
    if (st->stage >= STAGE_COMMENT) vorbis_comment_clear(&st->vc);
    if (st->stage >= STAGE_INFO) vorbis_info_clear(&st->vi);
    free(st);
}

static int enc_init_vbr(enc_state *st, long channels, long rate, float quality) {
    int ret = vorbis_encode_init_vbr(&st->vi, channels, rate, quality);
    if (ret != 0) return ret;
    vorbis_comment_init(&st->vc);
    st->stage = STAGE_COMMENT;
    ret = vorbis_analysis_init(&st->vd, &st->vi);
    if (ret != 0) return ret;
    st->stage = STAGE_DSP;
    ret = vorbis_block_init(&st->vd, &st->vb);
    if (ret != 0) return ret;
    st->stage = STAGE_BLOCK;
    return 0;
}

static void enc_add_tag(enc_state *st, const char *tag, const char *value) {
    vorbis_comment_add_tag(&st->vc, tag, value);
}

static int enc_headerout(enc_state *st, ogg_packet *id, ogg_packet *comm, ogg_packet *code) {
    return vorbis_analysis_headerout(&st->vd, &st->vc, id, comm, code);
}

static float** enc_buffer(enc_state *st, int frames) {
    return vorbis_analysis_buffer(&st->vd, frames);
}

static int enc_wrote(enc_state *st, int frames) {
    return vorbis_analysis_wrote(&st->vd, frames);
}

static int enc_blockout(enc_state *st) {
    return vorbis_analysis_blockout(&st->vd, &st->vb);
}

static int enc_analyze(enc_state *st) {
    int ret = vorbis_analysis(&st->vb, NULL);
    if (ret != 0) return ret;
    return vorbis_bitrate_addblock(&st->vb);
}

static int enc_flushpacket(enc_state *st, ogg_packet *op) {
    return vorbis_bitrate_flushpacket(&st->vd, op);
}

static int enc_channels(enc_state *st) { return st->vi.channels; }
static long enc_rate(enc_state *st) { return st->vi.rate; }
static long enc_bitrate_upper(enc_state *st) { return st->vi.bitrate_upper; }
static long enc_bitrate_nominal(enc_state *st) { return st->vi.bitrate_nominal; }
static long enc_bitrate_lower(enc_state *st) { return st->vi.bitrate_lower; }

static long pkt_bytes(ogg_packet *p) { return p->bytes; }
static ogg_int64_t pkt_granulepos(ogg_packet *p) { return p->granulepos; }
static ogg_int64_t pkt_packetno(ogg_packet *p) { return p->packetno; }
static int pkt_bos(ogg_packet *p) { return p->b_o_s; }
static int pkt_eos(ogg_packet *p) { return p->e_o_s; }
static void pkt_copy(ogg_packet *p, unsigned char *dst) {
    if (p->bytes > 0) memcpy(dst, p->packet, p->bytes);
}
*/
import "C"
import (
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/haivivi/pcmtoogg/pkg/audio/codec/ogg"
)

// MaxChannels is the largest channel count a Vorbis stream can carry.
const MaxChannels = 255

var (
	// ErrClosed is returned when a closed encoder is used.
	ErrClosed = errors.New("vorbis: encoder is closed")
	// ErrHeadersWritten is returned when HeaderOut is called twice.
	ErrHeadersWritten = errors.New("vorbis: headers already written")
	// ErrHeadersPending is returned when audio is submitted before HeaderOut.
	ErrHeadersPending = errors.New("vorbis: headers not written")
	// ErrEndOfInput is returned when audio is submitted after end of input.
	ErrEndOfInput = errors.New("vorbis: end of input already signalled")
)

// Comment is a single "TAG=value" user comment.
type Comment struct {
	Tag   string
	Value string
}

// Bitrate holds the bitrate hints derived from the quality setting, in
// bits per second. Zero or negative values mean "unset".
type Bitrate struct {
	Upper   int
	Nominal int
	Lower   int
}

// Encoder is a libvorbis analysis state. It is not safe for concurrent use.
type Encoder struct {
	st         *C.enc_state
	op         C.ogg_packet
	channels   int
	sampleRate int
	quality    float32

	headersOut bool
	endOfInput bool

	closed  atomic.Bool
	cleanup runtime.Cleanup
}

func freeEncState(ptr uintptr) {
	C.enc_free((*C.enc_state)(unsafe.Pointer(ptr)))
}

// NewEncoder sets up a VBR encoder.
//
// Parameters:
//   - channels: number of input channels (1..MaxChannels)
//   - sampleRate: input sample rate in Hz
//   - quality: VBR quality, nominally -0.1 (smallest) to 1.0 (best). The value
//     is handed to vorbis_encode_init_vbr as is.
//   - comments: user comments written to the comment header
//
// Returns an *Error if libvorbis rejects the combination.
func NewEncoder(channels, sampleRate int, quality float32, comments ...Comment) (*Encoder, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, &Error{Op: "init", Code: CodeInvalid}
	}
	if sampleRate <= 0 {
		return nil, &Error{Op: "init", Code: CodeInvalid}
	}

	st := C.enc_alloc()
	if st == nil {
		return nil, errors.New("vorbis: failed to allocate encoder state")
	}
	if ret := C.enc_init_vbr(st, C.long(channels), C.long(sampleRate), C.float(quality)); ret != 0 {
		C.enc_free(st)
		return nil, &Error{Op: "init", Code: int(ret)}
	}

	for _, c := range comments {
		tag := C.CString(c.Tag)
		value := C.CString(c.Value)
		C.enc_add_tag(st, tag, value)
		C.free(unsafe.Pointer(tag))
		C.free(unsafe.Pointer(value))
	}

	e := &Encoder{
		st:         st,
		channels:   channels,
		sampleRate: sampleRate,
		quality:    quality,
	}
	e.cleanup = runtime.AddCleanup(e, freeEncState, uintptr(unsafe.Pointer(st)))
	return e, nil
}

// Close releases the block, dsp, comment and info state, in that order.
// Safe to call multiple times.
func (e *Encoder) Close() {
	if e.closed.CompareAndSwap(false, true) {
		e.cleanup.Stop()
		C.enc_free(e.st)
		e.st = nil
	}
}

// Closed reports whether Close has been called.
func (e *Encoder) Closed() bool {
	return e.closed.Load()
}

// Channels returns the number of channels.
func (e *Encoder) Channels() int {
	return e.channels
}

// SampleRate returns the sample rate in Hz.
func (e *Encoder) SampleRate() int {
	return e.sampleRate
}

// Quality returns the quality the encoder was set up with.
func (e *Encoder) Quality() float32 {
	return e.quality
}

// Bitrate returns the bitrate hints libvorbisenc derived from the quality.
func (e *Encoder) Bitrate() Bitrate {
	if e.st == nil {
		return Bitrate{}
	}
	return Bitrate{
		Upper:   int(C.enc_bitrate_upper(e.st)),
		Nominal: int(C.enc_bitrate_nominal(e.st)),
		Lower:   int(C.enc_bitrate_lower(e.st)),
	}
}

// HeaderOut produces the identification, comment and setup header packets.
// It must be called exactly once, before any audio is submitted.
func (e *Encoder) HeaderOut() ([3]*ogg.Packet, error) {
	var headers [3]*ogg.Packet
	if e.st == nil {
		return headers, ErrClosed
	}
	if e.headersOut {
		return headers, ErrHeadersWritten
	}

	var id, comm, code C.ogg_packet
	if ret := C.enc_headerout(e.st, &id, &comm, &code); ret != 0 {
		return headers, &Error{Op: "headerout", Code: int(ret)}
	}
	headers[0] = copyPacket(&id)
	headers[1] = copyPacket(&comm)
	headers[2] = copyPacket(&code)
	e.headersOut = true
	return headers, nil
}

// Buffer exposes libvorbis' analysis buffer for frames samples per channel.
// The result is indexed [channel][frame] and is only valid until Wrote.
func (e *Encoder) Buffer(frames int) ([][]float32, error) {
	if err := e.checkWritable(); err != nil {
		return nil, err
	}
	if frames <= 0 {
		return nil, fmt.Errorf("vorbis: invalid buffer size %d", frames)
	}

	ptr := C.enc_buffer(e.st, C.int(frames))
	if ptr == nil {
		return nil, errors.New("vorbis: analysis buffer unavailable")
	}
	chans := unsafe.Slice((**C.float)(unsafe.Pointer(ptr)), e.channels)
	buf := make([][]float32, e.channels)
	for c := range buf {
		buf[c] = unsafe.Slice((*float32)(unsafe.Pointer(chans[c])), frames)
	}
	return buf, nil
}

// Wrote tells libvorbis how many frames of the last Buffer were filled.
// Wrote(0) signals end of input; no audio may be submitted afterwards.
func (e *Encoder) Wrote(frames int) error {
	if err := e.checkWritable(); err != nil {
		return err
	}
	if frames < 0 {
		return fmt.Errorf("vorbis: invalid frame count %d", frames)
	}
	if ret := C.enc_wrote(e.st, C.int(frames)); ret != 0 {
		return &Error{Op: "wrote", Code: int(ret)}
	}
	if frames == 0 {
		e.endOfInput = true
	}
	return nil
}

// EndOfInput reports whether Wrote(0) has been called.
func (e *Encoder) EndOfInput() bool {
	return e.endOfInput
}

func (e *Encoder) checkWritable() error {
	switch {
	case e.st == nil:
		return ErrClosed
	case !e.headersOut:
		return ErrHeadersPending
	case e.endOfInput:
		return ErrEndOfInput
	}
	return nil
}

// Packets drains every packet that the submitted audio has completed:
// blocks are pulled out, analyzed and handed to bitrate management, and
// each finished packet is yielded in stream order.
func (e *Encoder) Packets() iter.Seq2[*ogg.Packet, error] {
	return func(yield func(*ogg.Packet, error) bool) {
		if e.st == nil {
			yield(nil, ErrClosed)
			return
		}
		for C.enc_blockout(e.st) == 1 {
			if ret := C.enc_analyze(e.st); ret != 0 {
				yield(nil, &Error{Op: "analysis", Code: int(ret)})
				return
			}
			for C.enc_flushpacket(e.st, &e.op) == 1 {
				if !yield(copyPacket(&e.op), nil) {
					return
				}
			}
		}
	}
}

func copyPacket(op *C.ogg_packet) *ogg.Packet {
	data := make([]byte, int(C.pkt_bytes(op)))
	if len(data) > 0 {
		C.pkt_copy(op, (*C.uchar)(unsafe.Pointer(&data[0])))
	}
	return ogg.NewPacket(
		data,
		int64(C.pkt_granulepos(op)),
		int64(C.pkt_packetno(op)),
		C.pkt_bos(op) != 0,
		C.pkt_eos(op) != 0,
	)
}

// Version returns the libvorbis version string.
func Version() string {
	return C.GoString(C.vorbis_version_string())
}
