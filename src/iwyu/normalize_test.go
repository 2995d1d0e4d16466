package iwyu

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		want      []string
		hasErrors bool
	}{
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name:  "unrecognized lines pass through unchanged",
			input: []string{"first line of chatter", "second line of chatter"},
			want:  []string{"first line of chatter", "second line of chatter"},
		},
		{
			name:  "correct includes",
			input: []string{"(foo.h has correct #includes/fwd-decls)"},
			want:  []string{"foo.h:1:1: note: includes are correct"},
		},
		{
			name: "add suggestion",
			input: []string{
				"foo.cpp should add these lines:",
				"#include <bar.h>",
			},
			want: []string{
				"foo.cpp:1:1: error: add the following line",
				"#include <bar.h>",
			},
			hasErrors: true,
		},
		{
			name: "multiple add suggestions stay in the add state",
			input: []string{
				"foo.cpp should add these lines:",
				"#include <bar.h>",
				"#include <baz.h>",
			},
			want: []string{
				"foo.cpp:1:1: error: add the following line",
				"#include <bar.h>",
				"foo.cpp:1:1: error: add the following line",
				"#include <baz.h>",
			},
			hasErrors: true,
		},
		{
			name: "remove suggestion with line range",
			input: []string{
				"foo.cpp should remove these lines:",
				"- #include <bar.h>  // lines 12-12",
			},
			want: []string{
				"foo.cpp:12:1: error: remove this line",
				"#include <bar.h>",
			},
			hasErrors: true,
		},
		{
			name: "remove suggestion without line range falls back to line 1",
			input: []string{
				"foo.cpp should remove these lines:",
				"- #include <bar.h>",
			},
			want: []string{
				"foo.cpp:1:1: error: remove this line",
				"- #include <bar.h>",
			},
			hasErrors: true,
		},
		{
			name: "full include list is discarded",
			input: []string{
				"The full include-list for foo.cpp:",
				"#include <bar.h>",
				"#include <baz.h>",
			},
			want: nil,
		},
		{
			name: "separator resets to passthrough",
			input: []string{
				"The full include-list for foo.cpp:",
				"#include <bar.h>",
				"---",
				"trailing chatter",
			},
			want: []string{"trailing chatter"},
		},
		{
			name: "separator ends an add block",
			input: []string{
				"foo.cpp should add these lines:",
				"#include <bar.h>",
				"---",
				"chatter",
			},
			want: []string{
				"foo.cpp:1:1: error: add the following line",
				"#include <bar.h>",
				"chatter",
			},
			hasErrors: true,
		},
		{
			name: "blank lines never appear and never change state",
			input: []string{
				"foo.cpp should remove these lines:",
				"",
				"   ",
				"- #include <bar.h>  // lines 3-4",
				"\t",
			},
			want: []string{
				"foo.cpp:3:1: error: remove this line",
				"#include <bar.h>",
			},
			hasErrors: true,
		},
		{
			name: "full report for one file",
			input: []string{
				"foo.cpp should add these lines:",
				`#include "foo.h"`,
				"",
				"foo.cpp should remove these lines:",
				"- #include <unused.h>  // lines 4-4",
				"",
				"The full include-list for foo.cpp:",
				`#include "foo.h"`,
				"---",
			},
			want: []string{
				"foo.cpp:1:1: error: add the following line",
				`#include "foo.h"`,
				"foo.cpp:4:1: error: remove this line",
				"#include <unused.h>",
			},
			hasErrors: true,
		},
		{
			name: "correct report for a second file after a separator",
			input: []string{
				"(foo.h has correct #includes/fwd-decls)",
				"",
				"(bar.h has correct #includes/fwd-decls)",
			},
			want: []string{
				"foo.h:1:1: note: includes are correct",
				"bar.h:1:1: note: includes are correct",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasErrors := Normalize(strings.Join(tt.input, "\n"))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if hasErrors != tt.hasErrors {
				t.Errorf("hasErrors = %v, want %v", hasErrors, tt.hasErrors)
			}
		})
	}
}

func TestNormalizePassthroughIsVerbatim(t *testing.T) {
	input := "warning: something odd\nclang: note: diagnostics\n"

	got, hasErrors := Normalize(input)

	want := []string{"warning: something odd", "clang: note: diagnostics"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if hasErrors {
		t.Error("hasErrors = true for passthrough input")
	}
}
