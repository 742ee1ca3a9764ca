package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"kay/pkg/audioconv"
)

// CLI runs the whisper.cpp command line tool on a temporary WAV file.
type CLI struct {
	ExecPath string
	Model    string
	Language string
}

func NewCLI(execPath, model, language string) *CLI {
	return &CLI{ExecPath: execPath, Model: model, Language: language}
}

func (c *CLI) args(wavPath string) []string {
	args := []string{"-m", c.Model, "-f", wavPath, "-nt", "-np"}
	if c.Language != "" {
		args = append(args, "-l", c.Language)
	}
	return args
}

func (c *CLI) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	path, err := audioconv.TempWAV(pcm16k)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, c.ExecPath, c.args(path)...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", c.ExecPath, err, strings.TrimSpace(stderr.String()))
	}

	return strings.Join(strings.Fields(out.String()), " "), nil
}
