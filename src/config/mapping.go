package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FindMappingFile resolves an include-what-you-use mapping file name. An
// absolute name is returned as-is; otherwise the project directory is
// searched, then the include-what-you-use installation's share directory.
func FindMappingFile(projectDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	inProject := filepath.Join(projectDir, name)
	if _, err := os.Stat(inProject); err == nil {
		log.Info("using mapping file", "path", inProject)
		return inProject, nil
	}

	if iwyuPath, err := exec.LookPath("include-what-you-use"); err == nil {
		prefix := filepath.Dir(filepath.Dir(iwyuPath))
		onSystem := filepath.Join(prefix, "share", "include-what-you-use", name)
		if _, err := os.Stat(onSystem); err == nil {
			log.Info("using mapping file", "path", onSystem)
			return onSystem, nil
		}
	}

	return "", fmt.Errorf("could not find mapping file `%s'", name)
}
