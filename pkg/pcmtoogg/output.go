package pcmtoogg

import (
	"bytes"
	"io"
)

// Output owns the bytes of one encoded Ogg/Vorbis stream.
//
// All methods are safe on a nil *Output. After Release the output reports
// no data.
type Output struct {
	data   []byte
	pages  int
	serial int32
}

// Data returns the encoded stream, or nil if o is nil, empty or released.
// The slice aliases the output's storage.
func (o *Output) Data() []byte {
	if o == nil || len(o.data) == 0 {
		return nil
	}
	return o.data
}

// Size returns the length of the encoded stream in bytes.
func (o *Output) Size() int {
	if o == nil {
		return 0
	}
	return len(o.data)
}

// Pages returns the number of Ogg pages in the stream.
func (o *Output) Pages() int {
	if o == nil || o.data == nil {
		return 0
	}
	return o.pages
}

// SerialNo returns the serial number shared by every page.
func (o *Output) SerialNo() int32 {
	if o == nil {
		return 0
	}
	return o.serial
}

// Release drops the encoded bytes. Releasing twice, or releasing nil, is a
// no-op.
func (o *Output) Release() {
	if o == nil {
		return
	}
	o.data = nil
	o.pages = 0
}

// Released reports whether Release has been called or o holds nothing.
func (o *Output) Released() bool {
	return o == nil || o.data == nil
}

// WriteTo writes the encoded stream to w.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	if o == nil || len(o.data) == 0 {
		return 0, nil
	}
	return bytes.NewReader(o.data).WriteTo(w)
}
