// Package check runs clang-based analysis tools over a project's files in
// parallel and folds their results into one diagnostic stream with a single
// pass/fail verdict.
package check

import (
	"context"
	"strings"
)

// Variant selects which analysis tool a task runs.
type Variant int

const (
	// StyleCheck runs clang-tidy; the tool's exit code is authoritative.
	StyleCheck Variant = iota
	// IncludeCheck runs include-what-you-use; its report is reflowed by the
	// iwyu package and the verdict comes from the normalized diagnostics.
	IncludeCheck
)

func (v Variant) String() string {
	switch v {
	case StyleCheck:
		return "clang-tidy"
	case IncludeCheck:
		return "include-what-you-use"
	default:
		return "unknown"
	}
}

// Task is one immutable unit of work: one file checked by one tool variant.
// Command is nil only for files with no compilation entry; an include check
// cannot run without one.
type Task struct {
	Variant Variant
	Source  string
	Command []string
}

// Options is the process-wide configuration tasks consume. It is built once
// before scheduling and shared read-only by every worker.
type Options struct {
	Verbose      bool
	Fix          bool
	AutoHeaders  bool
	MappingFiles []string
	ProjectDir   string
	BuildDir     string
}

// Run executes the task's tool and returns its output block plus whether the
// task failed.
func (t Task) Run(ctx context.Context, runner Runner, opts Options) ([]string, bool, error) {
	switch t.Variant {
	case IncludeCheck:
		return runIWYU(ctx, runner, t, opts)
	default:
		return runTidy(ctx, runner, t, opts)
	}
}

// BuildTasks assembles the complete task list for a run. The list is fully
// populated before any worker starts; nothing is ever submitted later.
//
// Headers have no compile command of their own, so include-check tasks for
// them get one synthesized from the aggregated include flags. That keeps the
// invariant that every include check carries a command.
func BuildTasks(sources, headers []string, commands map[string][]string, includeFlags []string, iwyu, tidy bool) []Task {
	var tasks []Task

	if iwyu {
		for _, source := range sources {
			tasks = append(tasks, Task{Variant: IncludeCheck, Source: source, Command: commands[source]})
		}
		for _, header := range headers {
			tasks = append(tasks, Task{Variant: IncludeCheck, Source: header, Command: headerCommand(includeFlags, header)})
		}
	}

	if tidy {
		for _, source := range sources {
			tasks = append(tasks, Task{Variant: StyleCheck, Source: source, Command: commands[source]})
		}
		for _, header := range headers {
			tasks = append(tasks, Task{Variant: StyleCheck, Source: header})
		}
	}

	return tasks
}

// headerCommand synthesizes a compile command for a header from the union of
// the project's include flags. The driver token is never executed; only the
// argument tail is spliced into the tool invocation.
func headerCommand(includeFlags []string, header string) []string {
	command := make([]string, 0, len(includeFlags)+2)
	command = append(command, "cc")
	command = append(command, includeFlags...)
	return append(command, header)
}

// headerExtensions returns the header extensions that belong to a source
// file's language, so checks can also cover headers written in it.
func headerExtensions(source string) []string {
	switch {
	case strings.HasSuffix(source, ".c") || strings.HasSuffix(source, ".m"):
		return []string{"h"}
	case strings.HasSuffix(source, ".cpp") || strings.HasSuffix(source, ".cc"):
		return []string{"hpp", "hh", "ipp"}
	}
	return nil
}
