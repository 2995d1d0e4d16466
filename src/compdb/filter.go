package compdb

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter drops files that should not be checked: anything matching an
// exclude pattern, plus sources that live inside the build directory itself
// (generated code, configuration checks, and so on — they show up in the
// database without a leading "..").
func Filter(sources, headers, excludePatterns []string) ([]string, []string, error) {
	if len(excludePatterns) > 0 {
		exclude, err := regexp.Compile(strings.Join(excludePatterns, "|"))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		sources = reject(sources, exclude)
		headers = reject(headers, exclude)
	}

	kept := sources[:0:0]
	for _, s := range sources {
		if strings.HasPrefix(s, "..") {
			kept = append(kept, s)
		}
	}

	return kept, headers, nil
}

func reject(paths []string, re *regexp.Regexp) []string {
	kept := paths[:0:0]
	for _, p := range paths {
		if !re.MatchString(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
