package ogg

/*
#include <ogg/ogg.h>
#include <stdlib.h>
#include <string.h>

static ogg_stream_state* alloc_stream_state(int serialno) {
    ogg_stream_state *state = (ogg_stream_state*)calloc(1, sizeof(ogg_stream_state));
    if (state && ogg_stream_init(state, serialno) != 0) {
        free(state);
        return NULL;
    }
    return state;
}

static void free_stream_state(ogg_stream_state *state) {
    if (state) {
        ogg_stream_clear(state);
        free(state);
    }
}

// packet_in copies data into a temporary ogg_packet; libogg copies it again
// into the stream body, so the temporary is released right away.
static int packet_in(ogg_stream_state *state, const unsigned char *data, long bytes,
                     ogg_int64_t granulepos, ogg_int64_t packetno, int bos, int eos) {
    ogg_packet p;
    unsigned char *buf = (unsigned char*)malloc(bytes > 0 ? bytes : 1);
    if (!buf) {
        return -1;
    }
    if (bytes > 0) {
        memcpy(buf, data, bytes);
    }
    p.packet = buf;
    p.bytes = bytes;
    p.b_o_s = bos;
    p.e_o_s = eos;
    p.granulepos = granulepos;
    p.packetno = packetno;
    int ret = ogg_stream_packetin(state, &p);
    free(buf);
    return ret;
}

static long page_header_len(ogg_page *page) { return page->header_len; }
static long page_body_len(ogg_page *page) { return page->body_len; }

static void copy_page(ogg_page *page, unsigned char *header, unsigned char *body) {
    if (page->header_len > 0) memcpy(header, page->header, page->header_len);
    if (page->body_len > 0) memcpy(body, page->body, page->body_len);
}

static long packet_bytes(ogg_packet *p) { return p->bytes; }
static ogg_int64_t packet_granulepos(ogg_packet *p) { return p->granulepos; }
static ogg_int64_t packet_packetno(ogg_packet *p) { return p->packetno; }
static int packet_bos(ogg_packet *p) { return p->b_o_s; }
static int packet_eos(ogg_packet *p) { return p->e_o_s; }

static void copy_packet(ogg_packet *p, unsigned char *dst) {
    if (p->bytes > 0) memcpy(dst, p->packet, p->bytes);
}
*/
import "C"
import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"
)

var (
	// ErrStream indicates a stream error.
	ErrStream = errors.New("ogg: stream error")
	// ErrNoPacket indicates no packet or page is available.
	ErrNoPacket = errors.New("ogg: no packet available")
	// ErrHole indicates a gap in the data (packet loss).
	ErrHole = errors.New("ogg: hole in data")
	// ErrCleared is returned when a cleared stream is used.
	ErrCleared = errors.New("ogg: stream state cleared")
)

// StreamState manages the encoding/decoding of a logical Ogg bitstream.
// Must call Clear() when done to release resources.
type StreamState struct {
	state    *C.ogg_stream_state
	serialNo int32
	page     C.ogg_page
	packet   C.ogg_packet
	cleared  atomic.Bool
	cleanup  runtime.Cleanup
}

func freeStreamState(ptr uintptr) {
	C.free_stream_state((*C.ogg_stream_state)(unsafe.Pointer(ptr)))
}

// NewStreamState creates a new stream state with the given serial number.
// Returns an error if memory allocation fails.
func NewStreamState(serialNo int32) (*StreamState, error) {
	state := C.alloc_stream_state(C.int(serialNo))
	if state == nil {
		return nil, errors.New("ogg: failed to allocate stream state")
	}
	s := &StreamState{
		state:    state,
		serialNo: serialNo,
	}
	s.cleanup = runtime.AddCleanup(s, freeStreamState, uintptr(unsafe.Pointer(state)))
	return s, nil
}

// Clear releases resources. Safe to call multiple times.
func (s *StreamState) Clear() {
	if s.cleared.CompareAndSwap(false, true) {
		s.cleanup.Stop()
		C.free_stream_state(s.state)
		s.state = nil
	}
}

// Cleared reports whether Clear has been called.
func (s *StreamState) Cleared() bool {
	return s.cleared.Load()
}

// SerialNo returns the stream serial number.
func (s *StreamState) SerialNo() int32 {
	return s.serialNo
}

// EOS returns true once the end of stream packet has been consumed and all
// of its pages have been returned.
func (s *StreamState) EOS() bool {
	if s.state == nil {
		return true
	}
	return C.ogg_stream_eos(s.state) != 0
}

// --- Encoding ---

// PacketIn submits a packet for page generation. The data is copied.
func (s *StreamState) PacketIn(p *Packet) error {
	if s.state == nil {
		return ErrCleared
	}
	var data *C.uchar
	if len(p.data) > 0 {
		data = (*C.uchar)(unsafe.Pointer(&p.data[0]))
	}
	var bos, eos C.int
	if p.bos {
		bos = 1
	}
	if p.eos {
		eos = 1
	}
	ret := C.packet_in(s.state, data, C.long(len(p.data)),
		C.ogg_int64_t(p.granulePos), C.ogg_int64_t(p.packetNo), bos, eos)
	if ret != 0 {
		return ErrStream
	}
	return nil
}

// PageOut returns the next page if enough data has accumulated to fill one.
// Returns ErrNoPacket if no complete page is available.
func (s *StreamState) PageOut() (PageData, error) {
	if s.state == nil {
		return PageData{}, ErrCleared
	}
	if C.ogg_stream_pageout(s.state, &s.page) == 0 {
		return PageData{}, ErrNoPacket
	}
	return s.copyPage(), nil
}

// Flush forces any buffered packets into a page, even a partially filled
// one. Returns ErrNoPacket once nothing is left.
func (s *StreamState) Flush() (PageData, error) {
	if s.state == nil {
		return PageData{}, ErrCleared
	}
	if C.ogg_stream_flush(s.state, &s.page) == 0 {
		return PageData{}, ErrNoPacket
	}
	return s.copyPage(), nil
}

func (s *StreamState) copyPage() PageData {
	header := make([]byte, int(C.page_header_len(&s.page)))
	body := make([]byte, int(C.page_body_len(&s.page)))
	var hp, bp *C.uchar
	if len(header) > 0 {
		hp = (*C.uchar)(unsafe.Pointer(&header[0]))
	}
	if len(body) > 0 {
		bp = (*C.uchar)(unsafe.Pointer(&body[0]))
	}
	C.copy_page(&s.page, hp, bp)
	return PageData{Header: header, Body: body}
}

// --- Decoding ---

// PageIn submits a page to the stream for packetization.
func (s *StreamState) PageIn(page *Page) error {
	if s.state == nil {
		return ErrCleared
	}
	if C.ogg_stream_pagein(s.state, &page.page) != 0 {
		return ErrStream
	}
	return nil
}

// PacketOut extracts the next packet from the stream into packet.
// Returns ErrNoPacket if no complete packet is available and ErrHole if
// there is a gap in the data.
func (s *StreamState) PacketOut(packet *Packet) error {
	if s.state == nil {
		return ErrCleared
	}
	switch C.ogg_stream_packetout(s.state, &s.packet) {
	case 1:
		packet.data = make([]byte, int(C.packet_bytes(&s.packet)))
		if len(packet.data) > 0 {
			C.copy_packet(&s.packet, (*C.uchar)(unsafe.Pointer(&packet.data[0])))
		}
		packet.granulePos = int64(C.packet_granulepos(&s.packet))
		packet.packetNo = int64(C.packet_packetno(&s.packet))
		packet.bos = C.packet_bos(&s.packet) != 0
		packet.eos = C.packet_eos(&s.packet) != 0
		return nil
	case 0:
		return ErrNoPacket
	default:
		return ErrHole
	}
}
