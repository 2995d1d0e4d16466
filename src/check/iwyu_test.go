package check

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestIWYUArgv(t *testing.T) {
	tests := []struct {
		name string
		task Task
		opts Options
		want []string
	}{
		{
			name: "reuses the compile command tail",
			task: Task{
				Variant: IncludeCheck,
				Source:  "../src/foo.c",
				Command: []string{"cc", "-I../include", "-c", "../src/foo.c"},
			},
			want: []string{
				"include-what-you-use", "-Xiwyu", "--quoted_includes_first",
				"-I../include", "-c", "../src/foo.c",
				"-Xiwyu", "--check_also=../*.h",
			},
		},
		{
			name: "mapping files come before the command tail",
			task: Task{
				Variant: IncludeCheck,
				Source:  "../src/foo.cpp",
				Command: []string{"c++", "-c", "../src/foo.cpp"},
			},
			opts: Options{MappingFiles: []string{"/maps/qt5.imp", "/maps/boost.imp"}},
			want: []string{
				"include-what-you-use", "-Xiwyu", "--quoted_includes_first",
				"-Xiwyu", "--mapping_file=/maps/qt5.imp",
				"-Xiwyu", "--mapping_file=/maps/boost.imp",
				"-c", "../src/foo.cpp",
				"-Xiwyu", "--check_also=../*.hpp",
				"-Xiwyu", "--check_also=../*.hh",
				"-Xiwyu", "--check_also=../*.ipp",
			},
		},
		{
			name: "synthesized header command gets no check_also",
			task: Task{
				Variant: IncludeCheck,
				Source:  "../include/foo.h",
				Command: headerCommand([]string{"-I../include"}, "../include/foo.h"),
			},
			want: []string{
				"include-what-you-use", "-Xiwyu", "--quoted_includes_first",
				"-I../include", "../include/foo.h",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := iwyuArgv(tt.task, tt.opts)
			if err != nil {
				t.Fatalf("iwyuArgv: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("argv = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIWYUArgvRequiresCommand(t *testing.T) {
	task := Task{Variant: IncludeCheck, Source: "../src/foo.c"}

	if _, err := iwyuArgv(task, Options{}); !errors.Is(err, ErrNoCommand) {
		t.Errorf("err = %v, want ErrNoCommand", err)
	}
}

func TestRunIWYU(t *testing.T) {
	task := Task{
		Variant: IncludeCheck,
		Source:  "../src/foo.c",
		Command: []string{"cc", "-c", "../src/foo.c"},
	}

	t.Run("correct includes", func(t *testing.T) {
		runner := &fakeRunner{stderr: map[string]string{
			"../src/foo.c": "(../src/foo.c has correct #includes/fwd-decls)\n",
		}}

		lines, failed, err := runIWYU(context.Background(), runner, task, Options{})
		if err != nil {
			t.Fatalf("runIWYU: %v", err)
		}
		want := []string{"../src/foo.c:1:1: note: includes are correct"}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %q, want %q", lines, want)
		}
		if failed {
			t.Error("failed = true for a correct file")
		}
	})

	t.Run("suggestions fail the task", func(t *testing.T) {
		runner := &fakeRunner{stderr: map[string]string{
			"../src/foo.c": "../src/foo.c should add these lines:\n#include <stddef.h>\n",
		}}

		lines, failed, err := runIWYU(context.Background(), runner, task, Options{})
		if err != nil {
			t.Fatalf("runIWYU: %v", err)
		}
		want := []string{
			"../src/foo.c:1:1: error: add the following line",
			"#include <stddef.h>",
		}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %q, want %q", lines, want)
		}
		if !failed {
			t.Error("failed = false despite error diagnostics")
		}
	})

	t.Run("empty output is an invocation failure", func(t *testing.T) {
		runner := &fakeRunner{}

		lines, failed, err := runIWYU(context.Background(), runner, task, Options{})
		if err != nil {
			t.Fatalf("runIWYU: %v", err)
		}
		want := []string{"../src/foo.c:1:1: warning: include-what-you-use failed"}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines = %q, want %q", lines, want)
		}
		if !failed {
			t.Error("failed = false for an invocation failure")
		}
	})
}
