package audio

import (
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const SampleRate = 16000

// RecordOptions tunes silence detection. Zero fields take the defaults.
type RecordOptions struct {
	// SilenceRMS is the frame energy below which a frame counts as silence.
	SilenceRMS float64
	// Silence ends the utterance once speech has started.
	Silence time.Duration
	// StartTimeout gives up when nobody starts speaking.
	StartTimeout time.Duration
	// MaxLength caps one utterance.
	MaxLength time.Duration
}

func (o RecordOptions) withDefaults() RecordOptions {
	if o.SilenceRMS <= 0 {
		o.SilenceRMS = 0.015
	}
	if o.Silence <= 0 {
		o.Silence = 800 * time.Millisecond
	}
	if o.StartTimeout <= 0 {
		o.StartTimeout = 5 * time.Second
	}
	if o.MaxLength <= 0 {
		o.MaxLength = 10 * time.Second
	}
	return o
}

type Recorder struct {
	opt RecordOptions
}

func NewRecorder(opt RecordOptions) *Recorder {
	return &Recorder{opt: opt.withDefaults()}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto records one utterance from the default input device as 16 kHz
// mono PCM. It returns no samples when nobody spoke before StartTimeout.
func (r *Recorder) RecordAuto() ([]float32, error) {
	const (
		frameSize = 320 // 20ms
		frameDur  = 20 * time.Millisecond
	)

	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	startFrames := int(r.opt.StartTimeout / frameDur)
	silenceLimit := int(r.opt.Silence / frameDur)
	maxFrames := int(r.opt.MaxLength / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > r.opt.SilenceRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}

		if !speaking {
			if i >= startFrames {
				return nil, nil
			}
			continue
		}

		silenceFrames++
		if silenceFrames >= silenceLimit {
			break
		}
		out = append(out, buf...)
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
