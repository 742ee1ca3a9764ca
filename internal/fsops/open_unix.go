//go:build linux || freebsd || openbsd || netbsd || dragonfly

package fsops

import (
	"fmt"
	"os/exec"
)

func openDefault(name string) error {
	bin, err := exec.LookPath("xdg-open")
	if err != nil {
		return fmt.Errorf("xdg-open: %w", ErrUnsupported)
	}

	return start(exec.Command(bin, name))
}
