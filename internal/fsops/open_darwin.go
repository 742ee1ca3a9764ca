//go:build darwin

package fsops

import "os/exec"

func openDefault(name string) error {
	return start(exec.Command("open", name))
}
