//go:build !windows && !darwin && !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package fsops

func openDefault(string) error {
	return ErrUnsupported
}
