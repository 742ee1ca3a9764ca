//go:build windows

package fsops

import "os/exec"

func openDefault(name string) error {
	return start(exec.Command("rundll32", "url.dll,FileProtocolHandler", name))
}
