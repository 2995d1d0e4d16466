// Package compdb loads a Clang compilation database and derives the file and
// command lists the checks run over.
package compdb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/shlex"
)

// FileName is the canonical compilation database name inside a build
// directory.
const FileName = "compile_commands.json"

// Entry is one record of a compilation database. Exactly one of Arguments or
// Command is expected to be set.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
}

// Load reads a compilation database from path.
func Load(path string) ([]Entry, error) {
	log.Info("loading compilation database", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading compilation database: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing compilation database %s: %w", path, err)
	}
	return entries, nil
}

// Commands converts database entries into a map from source file to compile
// command argv. A `command` string is tokenized shell-style; a leading ccache
// wrapper is stripped.
func Commands(entries []Entry) (map[string][]string, error) {
	commands := make(map[string][]string, len(entries))

	for _, entry := range entries {
		var argv []string
		switch {
		case len(entry.Arguments) > 0:
			argv = entry.Arguments
		case entry.Command != "":
			var err error
			argv, err = shlex.Split(entry.Command)
			if err != nil {
				return nil, fmt.Errorf("tokenizing command for %s: %w", entry.File, err)
			}
		default:
			return nil, fmt.Errorf("entry for %s has neither command nor arguments", entry.File)
		}

		if len(argv) > 0 && argv[0] == "ccache" {
			argv = argv[1:]
		}

		commands[entry.File] = argv
	}

	return commands, nil
}

// SourceFiles returns the sorted source file list of a command map.
func SourceFiles(commands map[string][]string) []string {
	sources := make([]string, 0, len(commands))
	for file := range commands {
		sources = append(sources, file)
	}
	sort.Strings(sources)
	return sources
}

// IncludeFlags returns the sorted union of -I flags across all compile
// commands. These let tools run on individual headers, which have no compile
// command of their own; it assumes mashing all include directories together
// makes sense for the project.
func IncludeFlags(commands map[string][]string) []string {
	seen := map[string]bool{}
	for _, argv := range commands {
		for _, flag := range argv {
			if strings.HasPrefix(flag, "-I") {
				seen[flag] = true
			}
		}
	}

	flags := make([]string, 0, len(seen))
	for flag := range seen {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	return flags
}
