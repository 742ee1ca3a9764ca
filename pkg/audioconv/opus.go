//go:build opus

package audioconv

import (
	"io"

	popus "github.com/pekim/opus"
)

// decodeOggOpus decodes an Ogg Opus stream (48 kHz) through libopusfile.
func decodeOggOpus(rs io.ReadSeeker) ([]float32, error) {
	dec, err := popus.NewDecoder(rs)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		pcm48 []float32
		buf   = make([]int16, 48_000*ch/2) // ~0.5s
	)
	for {
		n, err := dec.Read(buf) // samples per channel
		if n > 0 {
			pcm48 = append(pcm48, int16SliceToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return resampleLinear(downmixInterleaved(pcm48, ch), 48000, SampleRate), nil
}
