package intent

import (
	"regexp"
	"strings"
)

// rule is one row of the ordered rule table.
//
// groups maps capture group indexes of pattern to slots. When pattern is nil
// or does not match, defaults is used; a nil defaults means the arguments are
// missing.
type rule struct {
	intent   Intent
	match    func(string) bool
	pattern  *regexp.Regexp
	groups   map[int]Slot
	defaults Args
}

func equals(phrase string) func(string) bool {
	return func(s string) bool { return s == phrase }
}

func contains(phrases ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range phrases {
			if strings.Contains(s, p) {
				return true
			}
		}
		return false
	}
}

// Order matters: predicates overlap and the first match wins.
var rules = []rule{
	{
		intent: Help,
		match:  equals("help"),
	},
	{
		intent:   ListCurrent,
		match:    equals("list"),
		defaults: Args{SlotDirectory: "."},
	},
	{
		intent:   ListFiles,
		match:    contains("list files"),
		pattern:  regexp.MustCompile(`list files in (.+)`),
		groups:   map[int]Slot{1: SlotDirectory},
		defaults: Args{SlotDirectory: "."},
	},
	{
		intent:   ListDirs,
		match:    contains("list folders", "list directories"),
		pattern:  regexp.MustCompile(`list (folders|directories) in (.+)`),
		groups:   map[int]Slot{2: SlotDirectory},
		defaults: Args{SlotDirectory: "."},
	},
	{
		intent:  Rename,
		match:   contains("rename"),
		pattern: regexp.MustCompile(`rename (.+?) to (.+)`),
		groups:  map[int]Slot{1: SlotOldName, 2: SlotNewName},
	},
	{
		intent:  DeleteFile,
		match:   contains("delete file"),
		pattern: regexp.MustCompile(`delete file (.+)`),
		groups:  map[int]Slot{1: SlotFilename},
	},
	{
		intent:  DeleteFolder,
		match:   contains("delete folder", "delete directory"),
		pattern: regexp.MustCompile(`delete (folder|directory) (.+)`),
		groups:  map[int]Slot{2: SlotFoldername},
	},
	{
		intent:  Move,
		match:   contains("move"),
		pattern: regexp.MustCompile(`move (.+?) to (.+)`),
		groups:  map[int]Slot{1: SlotSource, 2: SlotDestination},
	},
	{
		intent:  Copy,
		match:   contains("copy"),
		pattern: regexp.MustCompile(`copy (.+?) to (.+)`),
		groups:  map[int]Slot{1: SlotSource, 2: SlotDestination},
	},
	{
		intent:  OpenFile,
		match:   contains("open file"),
		pattern: regexp.MustCompile(`open file (.+)`),
		groups:  map[int]Slot{1: SlotFilename},
	},
	{
		intent: Exit,
		match:  contains("exit", "quit"),
	},
}

// Resolve classifies a transcript. It always returns exactly one intent;
// transcripts no rule matches resolve to Unrecognized.
func Resolve(transcript string) Result {
	for _, r := range rules {
		if !r.match(transcript) {
			continue
		}
		return r.apply(transcript)
	}

	return Result{Intent: Unrecognized, Args: Args{}}
}

func (r rule) apply(transcript string) Result {
	if r.pattern == nil && len(r.groups) == 0 {
		return Result{Intent: r.intent, Args: r.defaults.clone()}
	}

	m := r.pattern.FindStringSubmatch(transcript)
	if m == nil {
		return r.fallback()
	}

	args := make(Args, len(r.groups))
	for idx, slot := range r.groups {
		v := strings.TrimSpace(m[idx])
		if v == "" {
			if d, ok := r.defaults[slot]; ok {
				v = d
			} else {
				return r.fallback()
			}
		}
		args[slot] = v
	}

	return Result{Intent: r.intent, Args: args}
}

func (r rule) fallback() Result {
	if r.defaults == nil {
		return Result{Intent: r.intent, Args: Args{}, Missing: true}
	}
	return Result{Intent: r.intent, Args: r.defaults.clone()}
}

func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
