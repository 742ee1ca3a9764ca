package audioconv

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n, rate int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return out
}

func TestWAVRoundTrip(t *testing.T) {
	pcm := sine(SampleRate, SampleRate)

	path, err := TempWAV(pcm)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	got, err := Decode(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, len(pcm))
	assert.InDeltaSlice(t, pcm, got, 1e-3)
}

func TestDecodeStereo48k(t *testing.T) {
	const rate = 48000
	path := filepath.Join(t.TempDir(), "stereo.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	data := make([]int, 2*rate)
	for i := 0; i < rate; i++ {
		data[2*i] = 16384
		data[2*i+1] = -16384
	}
	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	got, err := Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, got, SampleRate)
	for _, v := range got {
		assert.InDelta(t, 0, v, 1e-6)
	}
}

func TestSniffsExtensionlessWAV(t *testing.T) {
	src, err := TempWAV(sine(800, SampleRate))
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(src) })

	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "command")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, err := ConvertFileToPCM16k(context.Background(), path, Options{MaxSamples: 100})
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Decode(context.Background(), filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello there"), 0o644))
	_, err = Decode(context.Background(), txt)
	assert.ErrorContains(t, err, "unsupported format")

	bad := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not riff"), 0o644))
	_, err = Decode(context.Background(), bad)
	assert.ErrorContains(t, err, "invalid wav")
}

func TestResampleLinear(t *testing.T) {
	in := []float32{0, 1, 2, 3, 4, 5}

	assert.Equal(t, in, resampleLinear(in, SampleRate, SampleRate))
	assert.Equal(t, []float32{0, 2, 4}, resampleLinear(in, 32000, SampleRate))
	assert.Equal(t, []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5}, resampleLinear(in, 8000, SampleRate))
}

func TestDownmix(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1}, downmixInterleaved([]float32{1, 0, -1, -1}, 2))
}
