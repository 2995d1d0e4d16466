package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/prplanit/clank/src/iwyu"
)

// ErrNoCommand is returned when an include check has no compile command to
// run with. include-what-you-use cannot run without one, so this is fatal for
// the task (and only the task).
var ErrNoCommand = errors.New("no compile command for include check")

// iwyuArgv builds the include-what-you-use command line for one file. The
// compile command's argument tail is reused verbatim; headers in the same
// language are checked too, which avoids suggestions like removing stdbool.h
// from C headers.
func iwyuArgv(task Task, opts Options) ([]string, error) {
	if len(task.Command) == 0 {
		return nil, ErrNoCommand
	}

	argv := []string{"include-what-you-use", "-Xiwyu", "--quoted_includes_first"}

	for _, mappingFile := range opts.MappingFiles {
		argv = append(argv, "-Xiwyu", "--mapping_file="+mappingFile)
	}

	argv = append(argv, task.Command[1:]...)

	for _, ext := range headerExtensions(task.Source) {
		argv = append(argv, "-Xiwyu", "--check_also=../*."+ext)
	}

	return argv, nil
}

// runIWYU runs include-what-you-use on one file and reflows its report into
// diagnostics. The tool's exit code is meaningless; the verdict comes from
// the normalized output. An empty report means the invocation itself failed.
func runIWYU(ctx context.Context, runner Runner, task Task, opts Options) ([]string, bool, error) {
	argv, err := iwyuArgv(task, opts)
	if err != nil {
		return nil, false, err
	}

	_, stderr, _, err := runner.Run(ctx, argv)
	if err != nil {
		return nil, false, err
	}

	lines, hasErrors := iwyu.Normalize(string(stderr))
	if len(lines) == 0 {
		warning := fmt.Sprintf("%s:1:1: warning: include-what-you-use failed", task.Source)
		return []string{warning}, true, nil
	}

	return lines, hasErrors, nil
}
