// Package fsops implements the file-system primitives the assistant acts on.
//
// Absent targets are reported with errors that satisfy
// errors.Is(err, fs.ErrNotExist).
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"syscall"
)

// ErrUnsupported is returned by Open on platforms without a default handler.
var ErrUnsupported = errors.New("operation not supported on this platform")

var (
	errSameFile = errors.New("source and destination are the same file")
	errIntoSelf = errors.New("cannot copy a directory into itself")
)

// OpenPlatforms names the platforms Open knows a default handler for.
const OpenPlatforms = "windows, macos and linux"

// OS performs operations against the local file system. The zero value is
// ready to use.
type OS struct{}

func New() *OS { return &OS{} }

// ListFiles returns the names of regular files in dir, sorted by name.
func (o *OS) ListFiles(dir string) ([]string, error) {
	return list(dir, func(info fs.FileInfo) bool { return info.Mode().IsRegular() })
}

// ListDirs returns the names of subdirectories of dir, sorted by name.
func (o *OS) ListDirs(dir string) ([]string, error) {
	return list(dir, func(info fs.FileInfo) bool { return info.IsDir() })
}

func list(dir string, keep func(fs.FileInfo) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		// Stat follows symlinks, so a link to a file counts as a file.
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		if keep(info) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

func (o *OS) Rename(oldName, newName string) error {
	return os.Rename(oldName, newName)
}

// DeleteFile removes a regular file. Anything else is reported as absent.
func (o *OS) DeleteFile(name string) error {
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return &fs.PathError{Op: "delete", Path: name, Err: fs.ErrNotExist}
	}

	return os.Remove(name)
}

// DeleteTree removes a directory and everything below it.
func (o *OS) DeleteTree(name string) error {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return &fs.PathError{Op: "delete", Path: name, Err: fs.ErrNotExist}
	}

	return os.RemoveAll(name)
}

// Move moves src to dst. When dst is an existing directory src is moved
// inside it. Moves across devices fall back to copy and remove.
func (o *OS) Move(src, dst string) error {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
		if _, err := os.Lstat(dst); err == nil {
			return fmt.Errorf("destination path %s already exists", dst)
		}
	}

	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("copy tree: %w", err)
		}
		return os.RemoveAll(src)
	}

	if err := copyFile(src, dst, info.Mode()); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return os.Remove(src)
}

// Copy copies a file or a whole directory tree. It reports whether src was a
// directory.
//
// A file copied into an existing directory keeps its base name; mode and
// modification time are preserved. A directory destination must not exist.
func (o *OS) Copy(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, &fs.PathError{Op: "copy", Path: src, Err: fs.ErrNotExist}
	}

	switch {
	case info.Mode().IsRegular():
		if di, err := os.Stat(dst); err == nil && di.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		// opening dst truncates it, so copying a file onto itself would empty it
		if di, err := os.Stat(dst); err == nil && os.SameFile(info, di) {
			return false, fmt.Errorf("%w: %s and %s", errSameFile, src, dst)
		}
		return false, copyFile(src, dst, info.Mode())
	case info.IsDir():
		return true, copyTree(src, dst)
	default:
		return false, &fs.PathError{Op: "copy", Path: src, Err: fs.ErrNotExist}
	}
}

// Open opens name with the platform's default handler.
func (o *OS) Open(name string) error {
	if _, err := os.Stat(name); err != nil {
		return err
	}

	return openDefault(name)
}

// start launches the handler without waiting for it to exit.
func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()

	return nil
}
