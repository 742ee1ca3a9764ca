package listen

import (
	"context"
	log "log/slog"
	"time"
)

// Recorder records one utterance, stopping on trailing silence.
type Recorder interface {
	RecordAuto() ([]float32, error)
}

// Ducker lowers other applications' audio while the microphone is open.
type Ducker interface {
	DuckOthers(ctx context.Context, factor float64, duration time.Duration) error
	UnduckOthers(ctx context.Context, duration time.Duration) error
}

type DuckOptions struct {
	Factor float64
	Fade   time.Duration
}

// Mic captures a transcript from the microphone. Capture problems are
// announced to the user and reported as an empty transcript.
type Mic struct {
	Recorder    Recorder
	Transcriber Transcriber
	Announcer   Announcer

	// Cue is played right before recording starts. Optional.
	Cue func() error

	// Ducker is optional; DuckOptions applies when it is set.
	Ducker      Ducker
	DuckOptions DuckOptions
}

func (m *Mic) Capture(ctx context.Context) (string, error) {
	if m.Cue != nil {
		if err := m.Cue(); err != nil {
			log.Warn("Failed to play cue", "err", err)
		}
	}

	log.Info("Starting listening")

	pcm, err := m.record(ctx)
	if err != nil {
		log.Error("Failed to record", "err", err)
		tell(ctx, m.Announcer, micErrorPrefix+err.Error())
		return "", nil
	}
	if len(pcm) == 0 {
		tell(ctx, m.Announcer, noSpeechText)
		return "", nil
	}

	log.Info("Recorded", "samples", len(pcm))

	return transcribe(ctx, m.Transcriber, pcm, m.Announcer)
}

func (m *Mic) record(ctx context.Context) ([]float32, error) {
	if m.Ducker == nil {
		return m.Recorder.RecordAuto()
	}

	if err := m.Ducker.DuckOthers(ctx, m.DuckOptions.Factor, m.DuckOptions.Fade); err != nil {
		log.Warn("Failed to duck other streams", "err", err)
	}
	defer func() {
		if err := m.Ducker.UnduckOthers(ctx, m.DuckOptions.Fade); err != nil {
			log.Warn("Failed to restore other streams", "err", err)
		}
	}()

	return m.Recorder.RecordAuto()
}

// transcribe runs tr over pcm and normalizes the result. Recognition problems
// are told to the user and yield an empty transcript.
func transcribe(ctx context.Context, tr Transcriber, pcm []float32, a Announcer) (string, error) {
	text, err := tr.Transcribe(ctx, pcm)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error("Failed to transcribe", "err", err)
		tell(ctx, a, speechErrorText)
		return "", nil
	}

	log.Info("Transcribed", "text", text)

	text = NormalizeSpeech(text)
	if text == "" {
		tell(ctx, a, notCaughtText)
	}

	return text, nil
}
