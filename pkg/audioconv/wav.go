package audioconv

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes 16 kHz mono pcm as a 16-bit PCM WAV.
func EncodeWAV(w io.WriteSeeker, pcm []float32) error {
	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(math.Round(clamp(float64(v), -1, 1) * math.MaxInt16))
	}

	enc := wav.NewEncoder(w, SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	return enc.Close()
}

// TempWAV writes pcm to a new temporary WAV file. The caller removes it.
func TempWAV(pcm []float32) (string, error) {
	f, err := os.CreateTemp("", "kay-*.wav")
	if err != nil {
		return "", err
	}

	err = EncodeWAV(f, pcm)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}
