// Package output owns the diagnostic stream. Diagnostics are written to
// stdout in the fixed `path:line:col: severity: message` shape editors and CI
// annotators already parse, so nothing here colors or reflows them.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console serializes diagnostic output from concurrent tasks. Each task's
// block is written as one contiguous unit; no other task's lines may
// interleave inside it.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console writing to stdout.
func NewConsole() *Console {
	return &Console{w: os.Stdout}
}

// NewConsoleWriter creates a console writing to an arbitrary writer.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{w: w}
}

// WriteBlock writes all lines atomically, one per output line.
func (c *Console) WriteBlock(lines []string) {
	if len(lines) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(c.w, line)
	}
}
