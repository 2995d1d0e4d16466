// Package iwyu reformats include-what-you-use reports into compiler-style
// diagnostics. The tool groups its suggestions in prose blocks per file, so a
// small line-by-line state machine reconstructs one diagnostic per suggestion.
package iwyu

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

var (
	correctRe      = regexp.MustCompile(`^\((.*?) has correct #includes/fwd-decls\)$`)
	shouldAddRe    = regexp.MustCompile(`^(.*?) should add these lines:$`)
	shouldRemoveRe = regexp.MustCompile(`^(.*?) should remove these lines:$`)
	removeLineRe   = regexp.MustCompile(`^- (.*?)  // lines ([0-9]+)-[0-9]+$`)
)

// parser state, a tagged variant: only pendingAdd and pendingRemove carry a
// path payload.
type stateKind int

const (
	general stateKind = iota
	pendingAdd
	pendingRemove
	listing
)

type state struct {
	kind stateKind
	path string
}

// transition inspects a line for one of the recognized markers and returns
// the state it switches to. The second return is false when the line is not a
// marker and must instead be interpreted under the current state.
func transition(cur state, line string, emit func(string)) (state, bool) {
	if line == "---" {
		return state{kind: general}, true
	}

	if strings.HasPrefix(line, "The full include-list for") {
		return state{kind: listing}, true
	}

	if m := correctRe.FindStringSubmatch(line); m != nil {
		emit(fmt.Sprintf("%s:1:1: note: includes are correct", m[1]))
		return state{kind: general}, true
	}

	if m := shouldAddRe.FindStringSubmatch(line); m != nil {
		return state{kind: pendingAdd, path: m[1]}, true
	}

	if m := shouldRemoveRe.FindStringSubmatch(line); m != nil {
		return state{kind: pendingRemove, path: m[1]}, true
	}

	return cur, false
}

// Normalize converts raw include-what-you-use output into a flat sequence of
// diagnostic lines. hasErrors reports whether any add/remove suggestion was
// seen. Blank lines are skipped and never change state; state is local to one
// call.
func Normalize(raw string) (lines []string, hasErrors bool) {
	emit := func(s string) { lines = append(lines, s) }

	cur := state{kind: general}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		next, changed := transition(cur, line, emit)
		cur = next
		if changed {
			continue
		}

		switch cur.kind {
		case general:
			// Unrecognized tool chatter passes through verbatim.
			emit(line)

		case listing:
			// The full include-list is noise; drop it.

		case pendingAdd:
			emit(fmt.Sprintf("%s:1:1: error: add the following line", cur.path))
			emit(line)
			hasErrors = true

		case pendingRemove:
			text, lineNum := line, "1"
			if m := removeLineRe.FindStringSubmatch(line); m != nil {
				text, lineNum = m[1], m[2]
			}
			emit(fmt.Sprintf("%s:%s:1: error: remove this line", cur.path, lineNum))
			emit(text)
			hasErrors = true
		}
	}

	return lines, hasErrors
}
