package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/domain/lecture"
	"lectern/internal/gemini"
)

type fakePCM struct {
	text string
	pcm  gemini.PCM
	err  error
}

func (f *fakePCM) SynthesizePCM(_ context.Context, text string) (gemini.PCM, error) {
	f.text = text
	return f.pcm, f.err
}

func pcmSamples(values ...int16) []byte {
	buf := &bytes.Buffer{}
	for _, v := range values {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo world", 5))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "unlimited", Truncate("unlimited", 0))
}

func TestPCMStreamer(t *testing.T) {
	s := newPCMStreamer(pcmSamples(0, 16384, -32768), 1)
	assert.Equal(t, 3, s.Len())

	samples := make([][2]float64, 2)
	n, ok := s.Stream(samples)
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, [2]float64{0, 0}, samples[0])
	assert.Equal(t, [2]float64{0.5, 0.5}, samples[1])

	n, ok = s.Stream(samples)
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, [2]float64{-1, -1}, samples[0])

	_, ok = s.Stream(samples)
	assert.False(t, ok)
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	synth := NewGeminiSynthesizer(&fakePCM{pcm: gemini.PCM{
		Data:       pcmSamples(100, -100, 2000, -2000),
		SampleRate: 24000,
		Channels:   1,
	}}, 100)

	clip, err := synth.Synthesize(context.Background(), "Hi.")
	require.NoError(t, err)

	data, err := EncodeWAV(clip)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))

	decoded, format, err := wav.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 24000, int(format.SampleRate))
	assert.Equal(t, 1, format.NumChannels)
	assert.Equal(t, 4, decoded.Len())
}

func TestEncodeWAVWithoutStreamer(t *testing.T) {
	_, err := EncodeWAV(Clip{})
	assert.Error(t, err)
}

func TestServiceConvert(t *testing.T) {
	source := &fakePCM{pcm: gemini.PCM{Data: pcmSamples(1, 2, 3), SampleRate: 24000, Channels: 1}}
	service := NewService(NewGeminiSynthesizer(source, 20))

	script := lecture.Script{
		Title:        "T",
		Introduction: "Hello world.",
		Sections:     []lecture.Section{{Heading: "H", Content: "One."}},
		Conclusion:   "Bye.",
	}

	data, err := service.Convert(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "Title: T. Introducti", source.text)
}

func TestServiceConvertErrors(t *testing.T) {
	service := NewService(NewGeminiSynthesizer(&fakePCM{err: gemini.ErrRateLimited}, 100))

	_, err := service.ConvertText(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = service.ConvertText(context.Background(), "Hello.")
	assert.True(t, errors.Is(err, gemini.ErrRateLimited))
}

func TestSeekBuffer(t *testing.T) {
	b := &seekBuffer{}
	_, _ = b.Write([]byte("abcdef"))
	_, err := b.Seek(1, 0)
	require.NoError(t, err)
	_, _ = b.Write([]byte("XY"))
	assert.Equal(t, "aXYdef", string(b.Bytes()))

	_, err = b.Seek(-10, 1)
	assert.Error(t, err)
}
