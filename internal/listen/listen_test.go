package listen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kay/internal/ipc"
)

type fakeRecorder struct {
	pcm []float32
	err error
}

func (r *fakeRecorder) RecordAuto() ([]float32, error) { return r.pcm, r.err }

type fakeTranscriber struct {
	text string
	err  error
	got  int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, pcm []float32) (string, error) {
	f.got = len(pcm)
	return f.text, f.err
}

type announced struct{ said []string }

func (a *announced) Announce(_ context.Context, text string) error {
	a.said = append(a.said, text)
	return nil
}

type fakeDucker struct{ calls []string }

func (d *fakeDucker) DuckOthers(context.Context, float64, time.Duration) error {
	d.calls = append(d.calls, "duck")
	return nil
}

func (d *fakeDucker) UnduckOthers(context.Context, time.Duration) error {
	d.calls = append(d.calls, "unduck")
	return errors.New("pactl missing")
}

func TestNormalizeSpeech(t *testing.T) {
	tests := map[string]string{
		" List files in Documents. ":        "list files in documents",
		"Rename a.txt to b.txt!":            "rename a.txt to b.txt",
		"[BLANK_AUDIO]":                     "",
		"  delete   file  notes.md ":        "delete file notes.md",
		"Copy report.pdf to backup, please": "copy report.pdf to backup, please",
		"":                                  "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeSpeech(in), in)
	}
}

func TestNormalizeKeepsTypedPaths(t *testing.T) {
	assert.Equal(t, "list files in ..", Normalize("List files in ..\n"))
}

func TestMicCapture(t *testing.T) {
	a := &announced{}
	tr := &fakeTranscriber{text: " Delete file Notes.md."}
	cued := 0
	m := &Mic{
		Recorder:    &fakeRecorder{pcm: make([]float32, 320)},
		Transcriber: tr,
		Announcer:   a,
		Cue:         func() error { cued++; return nil },
	}

	text, err := m.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "delete file notes.md", text)
	assert.Equal(t, 320, tr.got)
	assert.Equal(t, 1, cued)
	assert.Empty(t, a.said)
}

func TestMicCaptureProblems(t *testing.T) {
	tests := []struct {
		name string
		rec  *fakeRecorder
		tr   *fakeTranscriber
		want string
	}{
		{"no speech", &fakeRecorder{}, &fakeTranscriber{}, noSpeechText},
		{"device error", &fakeRecorder{err: errors.New("no device")}, &fakeTranscriber{}, "Error accessing microphone: no device"},
		{"service error", &fakeRecorder{pcm: []float32{0.1}}, &fakeTranscriber{err: errors.New("503")}, speechErrorText},
		{"nothing recognized", &fakeRecorder{pcm: []float32{0.1}}, &fakeTranscriber{text: "[BLANK_AUDIO]"}, notCaughtText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &announced{}
			m := &Mic{Recorder: tt.rec, Transcriber: tt.tr, Announcer: a}

			text, err := m.Capture(context.Background())
			require.NoError(t, err)
			assert.Empty(t, text)
			assert.Equal(t, []string{tt.want}, a.said)
		})
	}
}

func TestMicDucksAroundRecording(t *testing.T) {
	d := &fakeDucker{}
	m := &Mic{
		Recorder:    &fakeRecorder{pcm: []float32{0.1}},
		Transcriber: &fakeTranscriber{text: "list"},
		Ducker:      d,
		DuckOptions: DuckOptions{Factor: 0.3, Fade: time.Millisecond},
	}

	text, err := m.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "list", text)
	assert.Equal(t, []string{"duck", "unduck"}, d.calls)
}

func TestLines(t *testing.T) {
	var prompt bytes.Buffer
	l := NewLines(strings.NewReader("List\n\nrename A to B\n"), &prompt)

	var got []string
	for {
		text, err := l.Capture(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, text)
	}

	assert.Equal(t, []string{"list", "", "rename a to b"}, got)
	assert.Equal(t, strings.Repeat("> ", 4), prompt.String())
}

func TestFiles(t *testing.T) {
	decoded := map[string][]float32{
		"one.wav":   {0.1, 0.2},
		"empty.wav": {},
	}
	a := &announced{}
	f := &Files{
		Paths: []string{"one.wav", "empty.wav", "broken.ogg"},
		Decode: func(_ context.Context, path string) ([]float32, error) {
			pcm, ok := decoded[path]
			if !ok {
				return nil, errors.New("unsupported format")
			}
			return pcm, nil
		},
		Transcriber: &fakeTranscriber{text: "Help."},
		Announcer:   a,
	}

	ctx := context.Background()

	text, err := f.Capture(ctx)
	require.NoError(t, err)
	assert.Equal(t, "help", text)

	text, err = f.Capture(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = f.Capture(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = f.Capture(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{noSpeechText, speechErrorText}, a.said)
}

func TestTrigger(t *testing.T) {
	reqs := make(chan ipc.ControlMessage, 3)
	tr := &Trigger{
		Requests: reqs,
		Mic: &Mic{
			Recorder:    &fakeRecorder{pcm: []float32{0.1}},
			Transcriber: &fakeTranscriber{text: "Exit."},
		},
	}

	reqs <- ipc.ControlMessage{Cmd: ipc.CmdSay, Text: " List Files "}
	reqs <- ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	reqs <- ipc.ControlMessage{Cmd: "reboot"}

	ctx := context.Background()
	for _, want := range []string{"list files", "exit", ""} {
		text, err := tr.Capture(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, text)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err := tr.Capture(cctx)
	assert.ErrorIs(t, err, context.Canceled)
}
