// Package pcmtoogg encodes interleaved 32-bit float PCM into an Ogg/Vorbis
// bitstream held entirely in memory.
//
// The analysis is done by libvorbis and the framing by libogg; this package
// drives the two, accumulates the finished pages into one contiguous buffer
// and hands that buffer to the caller as an Output.
//
// One-shot encoding:
//
//	out, err := pcmtoogg.Encode(samples, len(samples), 2, 44100, 0.5)
//	if err != nil {
//	    return err
//	}
//	defer out.Release()
//	os.WriteFile("out.ogg", out.Data(), 0o644)
//
// When the input is produced piecewise, drive a Session directly:
//
//	s, err := pcmtoogg.NewSession(2, 44100, 0.5)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	for chunk := range chunks {
//	    if err := s.Submit(chunk); err != nil {
//	        return err
//	    }
//	}
//	out, err := s.Finish()
//
// Every page of the stream, including the three Vorbis headers, is kept in
// memory until Finish; nothing is delivered incrementally.
package pcmtoogg
