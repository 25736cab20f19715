// Command libpcmtoogg builds the encoder as a C shared library:
//
//	go build -buildmode=c-shared -o libpcmtoogg.so ./cmd/libpcmtoogg
//
// The exported functions keep the signatures hosts already bind to:
//
//	void*          encode_pcm_to_ogg(float* pcm_data, long num_samples, int channels, long sample_rate, float quality);
//	unsigned char* get_ogg_output_data(OggOutput* output);
//	int            get_ogg_output_size(OggOutput* output);
//	void           free_ogg_output(OggOutput* output);
//
// encode_pcm_to_ogg returns NULL on failure. The returned OggOutput and its
// bytes live in C memory and stay valid until free_ogg_output.
package main

/*
#include <stdlib.h>

typedef struct {
	unsigned char* data;
	int size;
} OggOutput;
*/
import "C"

import (
	"math"
	"unsafe"
)

func main() {}

//export encode_pcm_to_ogg
func encode_pcm_to_ogg(pcmData *C.float, numSamples C.long, channels C.int, sampleRate C.long, quality C.float) unsafe.Pointer {
	return unsafe.Pointer(encodeToC((*float32)(unsafe.Pointer(pcmData)), int(numSamples), int(channels), int(sampleRate), float32(quality)))
}

// encodeToC encodes n samples starting at pcm into a C-allocated OggOutput,
// or returns nil.
func encodeToC(pcm *float32, n, channels, sampleRate int, quality float32) *C.OggOutput {
	if n < 0 || (n > 0 && pcm == nil) {
		logger.Warn("libpcmtoogg: invalid sample buffer", "samples", n)
		return nil
	}
	data, ok := encode(unsafe.Slice(pcm, n), channels, sampleRate, quality)
	if !ok {
		return nil
	}
	return newOggOutput(data)
}

// newOggOutput copies data into a C-allocated OggOutput.
func newOggOutput(data []byte) *C.OggOutput {
	if len(data) > math.MaxInt32 {
		logger.Warn("libpcmtoogg: output too large for OggOutput", "bytes", len(data))
		return nil
	}
	out := (*C.OggOutput)(C.malloc(C.size_t(unsafe.Sizeof(C.OggOutput{}))))
	out.data = nil
	out.size = C.int(len(data))
	if len(data) > 0 {
		out.data = (*C.uchar)(C.CBytes(data))
	}
	return out
}

//export get_ogg_output_data
func get_ogg_output_data(output *C.OggOutput) *C.uchar {
	if output == nil {
		return nil
	}
	return output.data
}

//export get_ogg_output_size
func get_ogg_output_size(output *C.OggOutput) C.int {
	if output == nil {
		return 0
	}
	return output.size
}

//export free_ogg_output
func free_ogg_output(output *C.OggOutput) {
	if output == nil {
		return
	}
	if output.data != nil {
		C.free(unsafe.Pointer(output.data))
	}
	C.free(unsafe.Pointer(output))
}
