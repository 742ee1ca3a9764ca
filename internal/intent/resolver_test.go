package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       Result
	}{
		{"help", "help", Result{Intent: Help, Args: Args{}}},
		{"bare list", "list", Result{Intent: ListCurrent, Args: Args{SlotDirectory: "."}}},
		{"list files in", "list files in documents", Result{Intent: ListFiles, Args: Args{SlotDirectory: "documents"}}},
		{"list files default", "list files", Result{Intent: ListFiles, Args: Args{SlotDirectory: "."}}},
		{"list files blank directory", "list files in   ", Result{Intent: ListFiles, Args: Args{SlotDirectory: "."}}},
		{"list folders in", "list folders in /tmp", Result{Intent: ListDirs, Args: Args{SlotDirectory: "/tmp"}}},
		{"list directories in", "list directories in src", Result{Intent: ListDirs, Args: Args{SlotDirectory: "src"}}},
		{"list folders default", "please list folders", Result{Intent: ListDirs, Args: Args{SlotDirectory: "."}}},
		{"rename", "rename a.txt to b.txt", Result{Intent: Rename, Args: Args{SlotOldName: "a.txt", SlotNewName: "b.txt"}}},
		{"rename first to is separator", "rename a to b to c", Result{Intent: Rename, Args: Args{SlotOldName: "a", SlotNewName: "b to c"}}},
		{"rename missing", "rename a.txt", Result{Intent: Rename, Args: Args{}, Missing: true}},
		{"delete file", "delete file notes.md", Result{Intent: DeleteFile, Args: Args{SlotFilename: "notes.md"}}},
		{"delete file missing", "delete file", Result{Intent: DeleteFile, Args: Args{}, Missing: true}},
		{"delete file blank", "delete file    ", Result{Intent: DeleteFile, Args: Args{}, Missing: true}},
		{"delete folder", "delete folder temp", Result{Intent: DeleteFolder, Args: Args{SlotFoldername: "temp"}}},
		{"delete directory", "delete directory temp", Result{Intent: DeleteFolder, Args: Args{SlotFoldername: "temp"}}},
		{"delete folder missing", "delete folder", Result{Intent: DeleteFolder, Args: Args{}, Missing: true}},
		{"move", "move a.txt to archive", Result{Intent: Move, Args: Args{SlotSource: "a.txt", SlotDestination: "archive"}}},
		{"move missing", "move a.txt", Result{Intent: Move, Args: Args{}, Missing: true}},
		{"copy", "copy  report.pdf  to  backup ", Result{Intent: Copy, Args: Args{SlotSource: "report.pdf", SlotDestination: "backup"}}},
		{"copy missing", "copy everything", Result{Intent: Copy, Args: Args{}, Missing: true}},
		{"open file", "open file todo.txt", Result{Intent: OpenFile, Args: Args{SlotFilename: "todo.txt"}}},
		{"open file missing", "open file", Result{Intent: OpenFile, Args: Args{}, Missing: true}},
		{"exit", "exit", Result{Intent: Exit, Args: Args{}}},
		{"quit in sentence", "i want to quit now", Result{Intent: Exit, Args: Args{}}},
		{"unrecognized", "xyzzy", Result{Intent: Unrecognized, Args: Args{}}},
		{"empty", "", Result{Intent: Unrecognized, Args: Args{}}},
		{"help is exact", "help me", Result{Intent: Unrecognized, Args: Args{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.transcript))
		})
	}
}

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		transcript string
		want       Intent
	}{
		// rename is tested before move and copy
		{"move and rename a to b", Rename},
		{"rename copy.txt to moved.txt", Rename},
		// delete file beats move, copy and exit
		{"delete file move.txt", DeleteFile},
		{"delete file exit.log", DeleteFile},
		// list files beats every later rule
		{"list files in rename", ListFiles},
		{"list files in copy", ListFiles},
		// move is tested before copy
		{"move copy.txt to backup", Move},
		// copy beats open file and exit
		{"copy open file.txt to exit", Copy},
		{"open file quit.txt", OpenFile},
		// delete folder is tested after delete file
		{"delete file delete folder x", DeleteFile},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.transcript).Intent)
		})
	}
}

func TestResolveSynonyms(t *testing.T) {
	assert.Equal(t, Resolve("delete folder temp"), Resolve("delete directory temp"))
	assert.Equal(t,
		Resolve("list folders in docs").Args,
		Resolve("list directories in docs").Args,
	)
}

func TestResolveDoesNotShareDefaults(t *testing.T) {
	first := Resolve("list")
	first.Args[SlotDirectory] = "changed"

	assert.Equal(t, ".", Resolve("list").Args.Get(SlotDirectory))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "delete_folder", DeleteFolder.String())
	assert.Equal(t, "unrecognized", Intent(99).String())
}
