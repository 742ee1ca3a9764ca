package kay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Echo prints every announcement as "<Name>: <text>" before handing it to
// Next. A nil Next only prints.
type Echo struct {
	W    io.Writer
	Name string
	Next Announcer

	mu sync.Mutex
}

func (e *Echo) Announce(ctx context.Context, text string) error {
	e.mu.Lock()
	_, err := fmt.Fprintf(e.W, "%s: %s\n", e.Name, text)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("echo: %w", err)
	}

	if e.Next == nil {
		return nil
	}
	return e.Next.Announce(ctx, text)
}

// Fanout announces to every announcer in order and joins their errors.
type Fanout []Announcer

func (f Fanout) Announce(ctx context.Context, text string) error {
	var errs []error
	for _, a := range f {
		if err := a.Announce(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
