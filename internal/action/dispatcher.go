// Package action executes resolved intents against the file system and turns
// every outcome into a sentence to announce.
package action

import (
	"errors"
	"fmt"
	"io/fs"
	log "log/slog"
	"strings"

	"kay/internal/fsops"
	"kay/internal/intent"
)

// FileSystem is the set of primitives the dispatcher acts through.
type FileSystem interface {
	ListFiles(dir string) ([]string, error)
	ListDirs(dir string) ([]string, error)
	Rename(oldName, newName string) error
	DeleteFile(name string) error
	DeleteTree(name string) error
	Move(src, dst string) error
	// Copy reports whether src was a directory.
	Copy(src, dst string) (bool, error)
	Open(name string) error
}

// Response is what the assistant says back. Exit asks the caller to stop the
// interaction loop once Text has been announced.
type Response struct {
	Text string
	Exit bool
}

// Dispatcher turns resolved intents into file-system actions and replies.
type Dispatcher struct {
	fs FileSystem

	// OpenPlatforms is named in the reply when opening is unsupported.
	OpenPlatforms string
}

// NewDispatcher returns a Dispatcher acting through fsys.
func NewDispatcher(fsys FileSystem) *Dispatcher {
	return &Dispatcher{
		fs:            fsys,
		OpenPlatforms: fsops.OpenPlatforms,
	}
}

// Dispatch runs the action for res. It never returns an empty response and
// never lets a failing action escape.
func (d *Dispatcher) Dispatch(res intent.Result) Response {
	if res.Missing {
		return Response{Text: missingText(res.Intent)}
	}

	a := res.Args

	switch res.Intent {
	case intent.Help:
		return Response{Text: HelpText}

	case intent.ListCurrent, intent.ListFiles:
		dir := a.Get(intent.SlotDirectory)
		return d.guard("listing files", func() (string, error) {
			return listing("Files", "files", dir, d.fs.ListFiles)
		})

	case intent.ListDirs:
		dir := a.Get(intent.SlotDirectory)
		return d.guard("listing directories", func() (string, error) {
			return listing("Directories", "directories", dir, d.fs.ListDirs)
		})

	case intent.Rename:
		oldName, newName := a.Get(intent.SlotOldName), a.Get(intent.SlotNewName)
		return d.guard("renaming", func() (string, error) {
			if err := d.fs.Rename(oldName, newName); err != nil {
				return "", err
			}
			return fmt.Sprintf("Renamed %s to %s.", oldName, newName), nil
		})

	case intent.DeleteFile:
		name := a.Get(intent.SlotFilename)
		return d.guard("deleting file", func() (string, error) {
			err := d.fs.DeleteFile(name)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Sprintf("File %s does not exist.", name), nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted file %s.", name), nil
		})

	case intent.DeleteFolder:
		name := a.Get(intent.SlotFoldername)
		return d.guard("deleting folder", func() (string, error) {
			err := d.fs.DeleteTree(name)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Sprintf("Folder %s does not exist.", name), nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted folder %s.", name), nil
		})

	case intent.Move:
		src, dst := a.Get(intent.SlotSource), a.Get(intent.SlotDestination)
		return d.guard("moving item", func() (string, error) {
			if err := d.fs.Move(src, dst); err != nil {
				return "", err
			}
			return fmt.Sprintf("Moved %s to %s.", src, dst), nil
		})

	case intent.Copy:
		src, dst := a.Get(intent.SlotSource), a.Get(intent.SlotDestination)
		return d.guard("copying item", func() (string, error) {
			isDir, err := d.fs.Copy(src, dst)
			if err != nil {
				var pe *fs.PathError
				if errors.As(err, &pe) && pe.Path == src && errors.Is(err, fs.ErrNotExist) {
					return "Source does not exist.", nil
				}
				return "", err
			}
			kind := "file"
			if isDir {
				kind = "folder"
			}
			return fmt.Sprintf("Copied %s %s to %s.", kind, src, dst), nil
		})

	case intent.OpenFile:
		name := a.Get(intent.SlotFilename)
		return d.guard("opening file", func() (string, error) {
			err := d.fs.Open(name)
			if errors.Is(err, fsops.ErrUnsupported) {
				return fmt.Sprintf("Open file command is currently only supported on %s.", d.OpenPlatforms), nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Opening %s.", name), nil
		})

	case intent.Exit:
		return Response{Text: "Goodbye!", Exit: true}
	}

	return Response{Text: unrecognizedText}
}

// guard runs one external action and converts an error or a panic into the
// "Error <operation>: <detail>" reply.
func (d *Dispatcher) guard(operation string, run func() (string, error)) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Action panicked", "operation", operation, "panic", r)
			resp = Response{Text: fmt.Sprintf("Error %s: %v", operation, r)}
		}
	}()

	text, err := run()
	if err != nil {
		log.Warn("Action failed", "operation", operation, "err", err)
		return Response{Text: fmt.Sprintf("Error %s: %s", operation, err)}
	}

	return Response{Text: text}
}

func listing(title, noun, dir string, list func(string) ([]string, error)) (string, error) {
	names, err := list(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("The directory %s does not exist.", dir), nil
	}
	if err != nil {
		return "", err
	}

	if len(names) == 0 {
		return fmt.Sprintf("No %s found in %s", noun, dir), nil
	}

	return fmt.Sprintf("%s in %s are: %s", title, dir, strings.Join(names, ", ")), nil
}
