package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

const playbackRate beep.SampleRate = 44100

var (
	speakerOnce sync.Once
	speakerErr  error

	// playMu keeps announcements and cues from overlapping.
	playMu sync.Mutex
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(playbackRate, playbackRate.N(time.Second/10))
	})
	return speakerErr
}

// PlayMP3 decodes rc and plays it on the default output device, blocking
// until playback finishes or ctx is done. rc is closed.
func PlayMP3(ctx context.Context, rc io.ReadCloser) error {
	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	if err := initSpeaker(); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	playMu.Lock()
	defer playMu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != playbackRate {
		s = beep.Resample(4, format.SampleRate, playbackRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
