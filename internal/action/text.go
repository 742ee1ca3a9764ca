package action

import "kay/internal/intent"

const unrecognizedText = "Sorry, I did not recognize that command."

const HelpText = `Available commands:
- list : List all files in the current directory
- list files in [directory] : List all files in the specified directory
- list folders in [directory] : List all folders in the specified directory
- rename [old_name] to [new_name] : Rename a file or folder
- delete file [filename] : Delete a specific file
- delete folder [foldername] : Delete a folder and its contents
- move [source] to [destination] : Move a file or folder to a new location
- copy [source] to [destination] : Copy a file or folder to a new location
- open file [filename] : Open a file with its default application
- help : Show this help message
- exit or quit : Exit the program`

var missingTexts = map[intent.Intent]string{
	intent.Rename:       "Sorry, I couldn't understand the rename command.",
	intent.DeleteFile:   "Sorry, I couldn't understand which file to delete.",
	intent.DeleteFolder: "Sorry, I couldn't understand which folder to delete.",
	intent.Move:         "Sorry, I couldn't parse the move command.",
	intent.Copy:         "Sorry, I couldn't parse the copy command.",
	intent.OpenFile:     "Sorry, I couldn't understand which file to open.",
}

func missingText(i intent.Intent) string {
	if text, ok := missingTexts[i]; ok {
		return text
	}
	return "Sorry, I couldn't understand the " + i.String() + " command."
}

// Greeting is said once when the assistant starts.
func Greeting(name, user string) string {
	hello := "Hello"
	if user != "" {
		hello += " " + user
	}

	return hello + ", I am " + name + ", your personal file management assistant. " +
		"I'm here to help you organize and manage your files. " +
		"Just say 'help' if you need to know what I can do."
}
