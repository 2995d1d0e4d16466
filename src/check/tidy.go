package check

import (
	"context"
	"fmt"
	"strings"
)

// tidyArgv builds the clang-tidy command line for one file.
func tidyArgv(task Task, opts Options) []string {
	argv := []string{
		"clang-tidy",
		"--warnings-as-errors=*",
		"--quiet",
		"-p=.",
	}

	if opts.AutoHeaders {
		exts := headerExtensions(task.Source)
		patterns := make([]string, len(exts))
		for i, ext := range exts {
			patterns[i] = fmt.Sprintf(`^\.\./.*\.%s$`, ext)
		}
		argv = append(argv, "--header-filter="+strings.Join(patterns, "|"))
	}

	if opts.Fix {
		argv = append(argv, "--fix")
	}

	return append(argv, task.Source)
}

// runTidy runs clang-tidy on one file. The tool's exit code is authoritative;
// its stdout is already diagnostic-shaped, so the output only gets a framing
// header line.
func runTidy(ctx context.Context, runner Runner, task Task, opts Options) ([]string, bool, error) {
	stdout, _, exitCode, err := runner.Run(ctx, tidyArgv(task, opts))
	if err != nil {
		return nil, false, err
	}

	var lines []string
	if exitCode == 0 {
		lines = append(lines, fmt.Sprintf("%s:1:1: note: code is tidy", task.Source))
	} else {
		lines = append(lines, fmt.Sprintf("%s:1:1: error: clang-tidy issues from here:", task.Source))
	}
	lines = append(lines, outputLines(stdout)...)

	return lines, exitCode != 0, nil
}
