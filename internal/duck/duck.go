// Package duck lowers the volume of other applications while Kay listens, so
// music or video playback does not drown out the command.
package duck

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxVolume = 150

// RunFunc runs a pactl subcommand and returns its standard output.
type RunFunc func(ctx context.Context, args ...string) ([]byte, error)

func pactl(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "pactl", args...).Output()
}

type stream struct {
	id      int
	volume  int
	appName string
}

type fade struct {
	id       int
	from, to int
}

// Ducker fades PulseAudio sink inputs of other applications down and back up.
// Streams whose application.name is listed in self are never touched.
type Ducker struct {
	run  RunFunc
	self map[string]bool
	min  int

	mu     sync.Mutex
	active bool
	saved  map[int]int // sink input id -> volume % before ducking
}

// New returns a Ducker that never ducks below minVolume percent.
func New(self []string, minVolume int) *Ducker {
	return NewWithRunner(pactl, self, minVolume)
}

func NewWithRunner(run RunFunc, self []string, minVolume int) *Ducker {
	names := make(map[string]bool, len(self))
	for _, n := range self {
		names[n] = true
	}

	return &Ducker{
		run:   run,
		self:  names,
		min:   clamp(minVolume),
		saved: make(map[int]int),
	}
}

// DuckOthers fades every foreign stream to volume*factor. Calling it again
// before UnduckOthers is a no-op.
func (d *Ducker) DuckOthers(ctx context.Context, factor float64, fadeFor time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.foreign(ctx)
	if err != nil {
		return err
	}

	d.saved = make(map[int]int, len(streams))
	fades := make([]fade, 0, len(streams))
	for _, s := range streams {
		to := int(math.Round(float64(s.volume) * factor))
		if to < d.min {
			to = d.min
		}
		d.saved[s.id] = s.volume
		fades = append(fades, fade{id: s.id, from: s.volume, to: clamp(to)})
	}

	if err := d.fade(ctx, fades, fadeFor); err != nil {
		return err
	}
	d.active = true

	return nil
}

// UnduckOthers restores the streams DuckOthers lowered. Streams that appeared
// in between are left as they are.
func (d *Ducker) UnduckOthers(ctx context.Context, fadeFor time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.foreign(ctx)
	if err != nil {
		return err
	}

	var fades []fade
	for _, s := range streams {
		if orig, ok := d.saved[s.id]; ok {
			fades = append(fades, fade{id: s.id, from: s.volume, to: orig})
		}
	}

	if err := d.fade(ctx, fades, fadeFor); err != nil {
		return err
	}

	d.saved = make(map[int]int)
	d.active = false

	return nil
}

func (d *Ducker) foreign(ctx context.Context) ([]stream, error) {
	out, err := d.run(ctx, "list", "sink-inputs")
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	var res []stream
	for _, s := range parseSinkInputs(string(out)) {
		if !d.self[s.appName] {
			res = append(res, s)
		}
	}

	return res, nil
}

// fade moves every stream linearly in 10ms steps; a non-positive duration
// jumps straight to the target.
func (d *Ducker) fade(ctx context.Context, fades []fade, duration time.Duration) error {
	if len(fades) == 0 {
		return nil
	}

	const step = 10 * time.Millisecond

	steps := int(duration / step)
	if steps < 1 {
		steps = 1
	}
	start := 0
	if duration <= 0 {
		start = steps
	}

	for i := start; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := d.setVolume(ctx, f.id, v); err != nil {
				return err
			}
		}

		if i < steps {
			time.Sleep(duration / time.Duration(steps))
		}
	}

	return nil
}

func (d *Ducker) setVolume(ctx context.Context, id, percent int) error {
	_, err := d.run(ctx, "set-sink-input-volume", strconv.Itoa(id), fmt.Sprintf("%d%%", clamp(percent)))
	if err != nil {
		return fmt.Errorf("set volume id=%d: %w", id, err)
	}
	return nil
}

var (
	percentRe = regexp.MustCompile(`(\d+)\s*%`)
	appNameRe = regexp.MustCompile(`^application\.name = "([^"]*)"`)
)

// parseSinkInputs reads `pactl list sink-inputs` output. Only the first
// channel's volume is used.
func parseSinkInputs(text string) []stream {
	blocks := strings.Split(text, "Sink Input #")
	if len(blocks) <= 1 {
		return nil
	}

	var res []stream
	for _, block := range blocks[1:] {
		header, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}

		s := stream{id: id}
		volumeSeen := false
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			if !volumeSeen && strings.HasPrefix(line, "Volume:") {
				if m := percentRe.FindStringSubmatch(line); m != nil {
					s.volume, _ = strconv.Atoi(m[1])
					volumeSeen = true
				}
			}
			if s.appName == "" {
				if m := appNameRe.FindStringSubmatch(line); m != nil {
					s.appName = m[1]
				}
			}
		}

		if !volumeSeen && s.appName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}

func clamp(percent int) int {
	return min(max(percent, 0), maxVolume)
}
