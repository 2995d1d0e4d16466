package compdb

import (
	"io/fs"
	"path/filepath"
	"sort"
)

var headerExtensions = map[string]bool{
	".h":   true,
	".hh":  true,
	".hpp": true,
	".ipp": true,
}

// HeaderFiles walks the given include directories and returns every header
// file beneath them, sorted. These are the extra files checked beyond what
// the compilation database mentions.
func HeaderFiles(includeDirs []string) ([]string, error) {
	var headers []string

	for _, dir := range includeDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if headerExtensions[filepath.Ext(path)] {
				headers = append(headers, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(headers)
	return headers, nil
}
