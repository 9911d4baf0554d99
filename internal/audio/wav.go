package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/faiface/beep/wav"
)

// EncodeWAV packages a clip into a RIFF/WAVE container.
func EncodeWAV(clip Clip) ([]byte, error) {
	if clip.Streamer == nil {
		return nil, errors.New("clip has no audio")
	}
	buf := &seekBuffer{}
	if err := wav.Encode(buf, clip.Streamer, clip.Format); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	return buf.Bytes(), nil
}

// seekBuffer is an in-memory io.WriteSeeker. wav.Encode seeks back to patch
// the header sizes once the stream length is known.
type seekBuffer struct {
	buf []byte
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.pos + len(p)
	if end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	copy(s.buf[s.pos:], p)
	s.pos = end
	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(s.pos) + offset
	case io.SeekEnd:
		next = int64(len(s.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, errors.New("negative position")
	}
	s.pos = int(next)
	return next, nil
}

func (s *seekBuffer) Bytes() []byte {
	return s.buf
}
