package check

import (
	"reflect"
	"testing"
)

func TestHeaderExtensions(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"../src/foo.c", []string{"h"}},
		{"../src/foo.m", []string{"h"}},
		{"../src/foo.cpp", []string{"hpp", "hh", "ipp"}},
		{"../src/foo.cc", []string{"hpp", "hh", "ipp"}},
		{"../include/foo.h", nil},
		{"../include/foo.hpp", nil},
	}

	for _, tt := range tests {
		if got := headerExtensions(tt.source); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("headerExtensions(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestBuildTasks(t *testing.T) {
	sources := []string{"../src/a.c", "../src/b.c"}
	headers := []string{"../include/a.h"}
	commands := map[string][]string{
		"../src/a.c": {"cc", "-Iinc", "-c", "../src/a.c"},
		"../src/b.c": {"cc", "-Iinc", "-c", "../src/b.c"},
	}
	includeFlags := []string{"-Iinc"}

	t.Run("both variants enabled", func(t *testing.T) {
		tasks := BuildTasks(sources, headers, commands, includeFlags, true, true)

		if len(tasks) != 6 {
			t.Fatalf("got %d tasks, want 6", len(tasks))
		}

		var includes, styles int
		for _, task := range tasks {
			switch task.Variant {
			case IncludeCheck:
				includes++
				if len(task.Command) == 0 {
					t.Errorf("include check for %s has no command", task.Source)
				}
			case StyleCheck:
				styles++
			}
		}
		if includes != 3 || styles != 3 {
			t.Errorf("got %d include and %d style tasks, want 3 and 3", includes, styles)
		}
	})

	t.Run("header include check carries a synthesized command", func(t *testing.T) {
		tasks := BuildTasks(nil, headers, commands, includeFlags, true, false)

		if len(tasks) != 1 {
			t.Fatalf("got %d tasks, want 1", len(tasks))
		}
		want := []string{"cc", "-Iinc", "../include/a.h"}
		if !reflect.DeepEqual(tasks[0].Command, want) {
			t.Errorf("Command = %q, want %q", tasks[0].Command, want)
		}
	})

	t.Run("variants can be disabled", func(t *testing.T) {
		if tasks := BuildTasks(sources, headers, commands, includeFlags, false, false); len(tasks) != 0 {
			t.Errorf("got %d tasks, want 0", len(tasks))
		}
		for _, task := range BuildTasks(sources, headers, commands, includeFlags, false, true) {
			if task.Variant != StyleCheck {
				t.Errorf("unexpected %s task with tidy only", task.Variant)
			}
		}
	})
}
