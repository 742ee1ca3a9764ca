package duck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sinkInputs = `Sink Input #41
	Driver: protocol-native.c
	Volume: front-left: 52429 /  80% / -5.81 dB,   front-right: 52429 /  80% / -5.81 dB
	Properties:
		application.name = "Firefox"
Sink Input #57
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "kay"
Sink Input #60
	Volume: mono: 32768 /  50% / -18.06 dB
	Properties:
		application.name = "mpv"
Sink Input #oops
	Volume: mono: 1 /  1%
`

// fakePactl serves a fixed sink input listing and records volume changes.
type fakePactl struct {
	listing string
	sets    []string
	failSet bool
}

func (f *fakePactl) run(_ context.Context, args ...string) ([]byte, error) {
	if args[0] == "list" {
		return []byte(f.listing), nil
	}
	if f.failSet {
		return nil, errors.New("no such entity")
	}
	f.sets = append(f.sets, strings.Join(args[1:], " "))
	return nil, nil
}

func (f *fakePactl) last(id string) string {
	for i := len(f.sets) - 1; i >= 0; i-- {
		if strings.HasPrefix(f.sets[i], id+" ") {
			return strings.TrimPrefix(f.sets[i], id+" ")
		}
	}
	return ""
}

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(sinkInputs)

	assert.Equal(t, []stream{
		{id: 41, volume: 80, appName: "Firefox"},
		{id: 57, volume: 100, appName: "kay"},
		{id: 60, volume: 50, appName: "mpv"},
	}, got)
	assert.Nil(t, parseSinkInputs(""))
}

func TestDuckAndRestore(t *testing.T) {
	p := &fakePactl{listing: sinkInputs}
	d := NewWithRunner(p.run, []string{"kay"}, 10)
	ctx := context.Background()

	require.NoError(t, d.DuckOthers(ctx, 0.25, 0))
	assert.Equal(t, "20%", p.last("41"))
	assert.Equal(t, "13%", p.last("60"))
	assert.Empty(t, p.last("57"), "own stream is untouched")

	// ducking twice does nothing
	n := len(p.sets)
	require.NoError(t, d.DuckOthers(ctx, 0.25, 0))
	assert.Len(t, p.sets, n)

	p.listing = strings.NewReplacer("80%", "20%", "50%", "13%").Replace(sinkInputs)
	require.NoError(t, d.UnduckOthers(ctx, 0))
	assert.Equal(t, "80%", p.last("41"))
	assert.Equal(t, "50%", p.last("60"))

	n = len(p.sets)
	require.NoError(t, d.UnduckOthers(ctx, 0))
	assert.Len(t, p.sets, n, "nothing to restore")
}

func TestDuckRespectsMinimum(t *testing.T) {
	p := &fakePactl{listing: sinkInputs}
	d := NewWithRunner(p.run, nil, 40)

	require.NoError(t, d.DuckOthers(context.Background(), 0.1, 0))
	assert.Equal(t, "40%", p.last("41"))
	assert.Equal(t, "40%", p.last("57"))
}

func TestDuckFadesInSteps(t *testing.T) {
	p := &fakePactl{listing: sinkInputs}
	d := NewWithRunner(p.run, []string{"kay", "mpv"}, 0)

	require.NoError(t, d.DuckOthers(context.Background(), 0, 30_000_000))
	assert.Equal(t, []string{"41 80%", "41 53%", "41 27%", "41 0%"}, p.sets)
}

func TestDuckSetFailure(t *testing.T) {
	p := &fakePactl{listing: sinkInputs, failSet: true}
	d := NewWithRunner(p.run, nil, 0)

	err := d.DuckOthers(context.Background(), 0.5, 0)
	assert.ErrorContains(t, err, "set volume id=41")

	// a failed duck can be retried
	p.failSet = false
	assert.NoError(t, d.DuckOthers(context.Background(), 0.5, 0))
}
