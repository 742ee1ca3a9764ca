package listen

import (
	"context"
	"io"
	log "log/slog"
)

// DecodeFunc loads an audio file as 16 kHz mono PCM.
type DecodeFunc func(ctx context.Context, path string) ([]float32, error)

// Files transcribes recorded commands, one file per capture, in order.
type Files struct {
	Paths       []string
	Decode      DecodeFunc
	Transcriber Transcriber
	Announcer   Announcer

	next int
}

func (f *Files) Capture(ctx context.Context) (string, error) {
	if f.next >= len(f.Paths) {
		return "", io.EOF
	}
	path := f.Paths[f.next]
	f.next++

	log.Info("Reading command file", "path", path)

	pcm, err := f.Decode(ctx, path)
	if err != nil {
		log.Error("Failed to decode audio", "path", path, "err", err)
		tell(ctx, f.Announcer, speechErrorText)
		return "", nil
	}
	if len(pcm) == 0 {
		tell(ctx, f.Announcer, noSpeechText)
		return "", nil
	}

	return transcribe(ctx, f.Transcriber, pcm, f.Announcer)
}
