// Package listen provides the capture sources that produce transcripts for
// the interaction loop.
package listen

import (
	"context"
	log "log/slog"
	"regexp"
	"strings"
)

// Announcer lets a capture source talk to the user about capture problems.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// Transcriber turns 16 kHz mono PCM into text.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

const (
	noSpeechText    = "No speech detected. Please try again."
	notCaughtText   = "I didn't catch that. Please try again."
	speechErrorText = "There was an issue with the speech service."
	micErrorPrefix  = "Error accessing microphone: "
)

// Normalize lower-cases typed input.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// annotationRe matches recognizer markers such as [BLANK_AUDIO].
var annotationRe = regexp.MustCompile(`\[[^\]]*\]`)

// NormalizeSpeech lower-cases a recognizer transcript, drops bracketed
// annotations, collapses whitespace and strips the sentence punctuation
// recognizers tend to append.
func NormalizeSpeech(text string) string {
	text = Normalize(annotationRe.ReplaceAllString(text, " "))
	text = strings.TrimRight(text, ".!?,; \t")

	return strings.Join(strings.Fields(text), " ")
}

// tell announces a capture problem; a nil Announcer stays silent.
func tell(ctx context.Context, a Announcer, text string) {
	if a == nil {
		return
	}
	if err := a.Announce(ctx, text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}
