// Package kay runs the assistant's interaction loop: capture a transcript,
// resolve it, dispatch it and announce the response.
package kay

import (
	"context"
	"errors"
	"io"
	log "log/slog"

	"kay/internal/action"
	"kay/internal/intent"
)

// Capturer blocks until the next utterance is available. An empty transcript
// means nothing usable was heard; io.EOF means the source is exhausted.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// Announcer says text to the user and returns once it has been said.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

type Dispatcher interface {
	Dispatch(res intent.Result) action.Response
}

type Kay struct {
	capture  Capturer
	announce Announcer
	dispatch Dispatcher

	// Greeting is announced once before the first capture when set.
	Greeting string
}

func New(c Capturer, a Announcer, d Dispatcher) *Kay {
	return &Kay{
		capture:  c,
		announce: a,
		dispatch: d,
	}
}

// Run loops until the user asks to exit, the capture source is exhausted or
// ctx is cancelled. Only cancellation is reported as an error.
func (k *Kay) Run(ctx context.Context) error {
	log.Info("Kay ready")

	if k.Greeting != "" {
		k.say(ctx, k.Greeting)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := k.capture.Capture(ctx)
		if errors.Is(err, io.EOF) {
			log.Info("Capture source exhausted")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("Capture failed", "err", err)
			continue
		}

		if text == "" {
			continue
		}

		resp := k.Handle(text)
		k.say(ctx, resp.Text)

		if resp.Exit {
			log.Info("Exit requested")
			return nil
		}
	}
}

// Handle resolves and dispatches a single transcript.
func (k *Kay) Handle(transcript string) action.Response {
	log.Info("Heard", "text", transcript)

	res := intent.Resolve(transcript)
	log.Debug("Resolved", "intent", res.Intent, "args", res.Args, "missing", res.Missing)

	resp := k.dispatch.Dispatch(res)
	log.Info("Response", "intent", res.Intent, "text", resp.Text)

	return resp
}

func (k *Kay) say(ctx context.Context, text string) {
	if err := k.announce.Announce(ctx, text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}
