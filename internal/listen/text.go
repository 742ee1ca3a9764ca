package listen

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Lines reads one typed command per line. It returns io.EOF once the reader
// is exhausted.
type Lines struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewLines reads commands from r. When prompt is not nil a "> " prompt is
// written to it before every read.
func NewLines(r io.Reader, prompt io.Writer) *Lines {
	return &Lines{
		scanner: bufio.NewScanner(r),
		prompt:  prompt,
	}
}

func (l *Lines) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if l.prompt != nil {
		fmt.Fprint(l.prompt, "> ")
	}

	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("read command: %w", err)
		}
		return "", io.EOF
	}

	return Normalize(l.scanner.Text()), nil
}
