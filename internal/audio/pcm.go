package audio

import (
	"encoding/binary"

	"github.com/faiface/beep"
)

// pcmStreamer streams signed 16-bit little-endian PCM.
type pcmStreamer struct {
	data     []byte
	channels int
	pos      int
}

func newPCMStreamer(data []byte, channels int) *pcmStreamer {
	if channels < 1 {
		channels = 1
	}
	return &pcmStreamer{data: data, channels: channels}
}

func (p *pcmStreamer) frameSize() int {
	return 2 * p.channels
}

func (p *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	frame := p.frameSize()
	for n < len(samples) && p.pos+frame <= len(p.data) {
		left := sample(p.data[p.pos:])
		right := left
		if p.channels > 1 {
			right = sample(p.data[p.pos+2:])
		}
		samples[n] = [2]float64{left, right}
		p.pos += frame
		n++
	}
	return n, n > 0
}

func (p *pcmStreamer) Err() error {
	return nil
}

// Len is the number of frames.
func (p *pcmStreamer) Len() int {
	return len(p.data) / p.frameSize()
}

func sample(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) / (1 << 15)
}

var _ beep.Streamer = (*pcmStreamer)(nil)
