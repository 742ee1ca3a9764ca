// Package tts voices Kay's responses.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text || !voice)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	if (espeak_SetVoiceByName(voice) != EE_OK)
	{ espeak_Terminate(); return -3; }

	espeak_SetParameter(espeakRATE, rate, 0);

	espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

// Espeak speaks through libespeak-ng on the default output device.
type Espeak struct {
	Voice string
	// Rate in words per minute.
	Rate int

	mu sync.Mutex
}

func NewEspeak(voice string, rate int) *Espeak {
	return &Espeak{Voice: voice, Rate: rate}
}

// Announce blocks until text has been spoken. Synthesis itself cannot be
// interrupted; ctx is only checked before it starts.
func (e *Espeak) Announce(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(e.Voice)
	defer C.free(unsafe.Pointer(cvoice))

	e.mu.Lock()
	defer e.mu.Unlock()

	rc := C.espeak_say(ctext, cvoice, C.int(e.Rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}
