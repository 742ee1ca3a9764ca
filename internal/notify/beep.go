// Package notify tells the user that Kay has started listening.
package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"kay/internal/audio"
)

// Cue plays the mp3 at path.
func Cue(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue: %w", err)
	}

	return audio.PlayMP3(ctx, f)
}

// Desktop shows summary as a desktop notification through notify-send.
func Desktop(ctx context.Context, summary string) error {
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}

	out, err := exec.CommandContext(ctx, bin, "--app-name=kay", "--expire-time=2000", summary).CombinedOutput()
	if err != nil {
		return fmt.Errorf("notify-send: %w: %s", err, out)
	}

	return nil
}

// Listening combines the sound cue and the desktop notification; either may
// be switched off. The cue error wins when both fail.
func Listening(ctx context.Context, sound string, desktop bool) error {
	var errs [2]error
	if desktop {
		errs[1] = Desktop(ctx, "Listening...")
	}
	if sound != "" {
		errs[0] = Cue(ctx, sound)
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
