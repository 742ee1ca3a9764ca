// Package intent turns a lower-cased transcript into exactly one command
// intent and the raw arguments that intent needs.
package intent

// Intent is the command a transcript expresses.
type Intent int

const (
	Unrecognized Intent = iota
	Help
	ListCurrent
	ListFiles
	ListDirs
	Rename
	DeleteFile
	DeleteFolder
	Move
	Copy
	OpenFile
	Exit
)

var intentNames = map[Intent]string{
	Unrecognized: "unrecognized",
	Help:         "help",
	ListCurrent:  "list_current",
	ListFiles:    "list_files",
	ListDirs:     "list_dirs",
	Rename:       "rename",
	DeleteFile:   "delete_file",
	DeleteFolder: "delete_folder",
	Move:         "move",
	Copy:         "copy",
	OpenFile:     "open_file",
	Exit:         "exit",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unrecognized"
}

// Slot names an argument extracted from a transcript.
type Slot string

const (
	SlotDirectory   Slot = "directory"
	SlotOldName     Slot = "old_name"
	SlotNewName     Slot = "new_name"
	SlotSource      Slot = "source"
	SlotDestination Slot = "destination"
	SlotFilename    Slot = "filename"
	SlotFoldername  Slot = "foldername"
)

// Args holds the slots relevant to one resolved intent.
type Args map[Slot]string

// Get returns the value of slot s, or "" when it is not set.
func (a Args) Get(s Slot) string {
	return a[s]
}

// Result is the outcome of resolving one transcript.
//
// Missing reports that the trigger phrase matched but the full argument
// structure did not; Args is empty in that case.
type Result struct {
	Intent  Intent
	Args    Args
	Missing bool
}
