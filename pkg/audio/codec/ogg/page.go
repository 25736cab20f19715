package ogg

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the size of the fixed part of an Ogg page header.
const HeaderSize = 27

// CapturePattern starts every Ogg page.
const CapturePattern = "OggS"

// ErrShortHeader is returned when a page header is truncated.
var ErrShortHeader = errors.New("ogg: short page header")

// PageData is a page copied into Go memory.
//
// Header is the raw page header including the segment table, Body the
// concatenated segment data. Writing Header followed by Body reproduces the
// page byte for byte.
type PageData struct {
	Header []byte
	Body   []byte
}

// Len returns the total encoded size of the page.
func (p PageData) Len() int {
	return len(p.Header) + len(p.Body)
}

// Valid reports whether the header carries the capture pattern and its
// segment table is complete.
func (p PageData) Valid() bool {
	if len(p.Header) < HeaderSize || string(p.Header[:4]) != CapturePattern {
		return false
	}
	return len(p.Header) == HeaderSize+int(p.Header[26])
}

func (p PageData) flags() byte {
	if len(p.Header) < HeaderSize {
		return 0
	}
	return p.Header[5]
}

// IsBOS returns true if this is a beginning of stream page.
func (p PageData) IsBOS() bool { return p.flags()&BOS != 0 }

// IsEOS returns true if this is an end of stream page.
func (p PageData) IsEOS() bool { return p.flags()&EOS != 0 }

// IsContinued returns true if the first packet continues from the previous page.
func (p PageData) IsContinued() bool { return p.flags()&Continued != 0 }

// GranulePos returns the granule position, or -1 for a short header.
func (p PageData) GranulePos() int64 {
	if len(p.Header) < HeaderSize {
		return -1
	}
	return int64(binary.LittleEndian.Uint64(p.Header[6:14]))
}

// SerialNo returns the stream serial number.
func (p PageData) SerialNo() int32 {
	if len(p.Header) < HeaderSize {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(p.Header[14:18]))
}

// PageNo returns the page sequence number, or -1 for a short header.
func (p PageData) PageNo() int64 {
	if len(p.Header) < HeaderSize {
		return -1
	}
	return int64(binary.LittleEndian.Uint32(p.Header[18:22]))
}

// Checksum returns the CRC stored in the header.
func (p PageData) Checksum() uint32 {
	if len(p.Header) < HeaderSize {
		return 0
	}
	return binary.LittleEndian.Uint32(p.Header[22:26])
}

// SplitPages splits a contiguous Ogg byte stream into pages without going
// through libogg. It does not resynchronize: data must start at a page
// boundary and contain only whole pages.
func SplitPages(data []byte) ([]PageData, error) {
	var pages []PageData
	for len(data) > 0 {
		if len(data) < HeaderSize {
			return pages, ErrShortHeader
		}
		if string(data[:4]) != CapturePattern {
			return pages, ErrSync
		}
		nsegs := int(data[26])
		hlen := HeaderSize + nsegs
		if len(data) < hlen {
			return pages, ErrShortHeader
		}
		blen := 0
		for _, lace := range data[HeaderSize:hlen] {
			blen += int(lace)
		}
		if len(data) < hlen+blen {
			return pages, ErrNeedMore
		}
		pages = append(pages, PageData{
			Header: data[:hlen:hlen],
			Body:   data[hlen : hlen+blen : hlen+blen],
		})
		data = data[hlen+blen:]
	}
	return pages, nil
}
