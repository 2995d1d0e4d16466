// Package config merges clank's configuration from defaults, an optional
// project config file, and command-line flags, in that order of priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/prplanit/clank/src/version"
)

// Config file names probed in the project directory. YAML is a superset of
// JSON, so one decoder covers both spellings.
var configFileNames = []string{".clank.yml", ".clank.json"}

// Error reports an invalid configuration file.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Config is the process-wide configuration. It is constructed once before
// scheduling begins and never mutated afterwards, so workers share it without
// synchronization.
type Config struct {
	AutoHeaders     bool
	BuildDir        string
	ExcludePatterns []string
	IncludeDirs     []string
	Fix             bool
	IWYU            bool
	Tidy            bool
	Jobs            int
	MappingFiles    []string
	Verbose         bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AutoHeaders: true,
		BuildDir:    "build",
		IWYU:        true,
		Tidy:        true,
		Jobs:        runtime.NumCPU(),
	}
}

// Load returns the default configuration extended by the project's config
// file, if one exists. Mapping files named in the file are resolved relative
// to the project directory immediately, so a missing one fails here rather
// than mid-run.
func Load(projectDir string) (Config, error) {
	cfg := Default()

	for _, name := range configFileNames {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := cfg.applyFile(path, projectDir); err != nil {
			return cfg, err
		}
		break
	}

	return cfg, nil
}

// LoadFile returns the default configuration extended by an explicitly named
// config file. Unlike Load, a missing file is an error here: the caller asked
// for it.
func LoadFile(path, projectDir string) (Config, error) {
	cfg := Default()
	if err := cfg.applyFile(path, projectDir); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path, projectDir string) error {
	log.Info("loading configuration", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errorf("parsing %s: %v", path, err)
	}

	if err := checkVersion(raw); err != nil {
		return err
	}

	for key, value := range raw {
		if err := c.applyKey(key, value, projectDir); err != nil {
			return err
		}
	}
	return nil
}

// checkVersion requires a version field and warns when the file targets a
// newer clank than this one.
func checkVersion(raw map[string]any) error {
	value, ok := raw["version"]
	if !ok {
		return errorf("configuration file missing a version")
	}

	text, ok := value.(string)
	if !ok {
		return errorf("value for `version' is not a string")
	}

	fileVersion, err := semver.NewVersion(text)
	if err != nil {
		return errorf("invalid version number `%s'", text)
	}

	toolVersion, err := semver.NewVersion(version.Semver())
	if err != nil {
		return nil
	}
	if fileVersion.GreaterThan(toolVersion) {
		log.Warn("configuration version is newer than this clank",
			"config", fileVersion, "clank", toolVersion)
	}
	return nil
}

func (c *Config) applyKey(key string, value any, projectDir string) error {
	switch key {
	case "version":
		// Already handled.
	case "auto_headers":
		return setBool(key, value, &c.AutoHeaders)
	case "build_dir":
		return setString(key, value, &c.BuildDir)
	case "exclude_patterns":
		return appendStrings(key, value, &c.ExcludePatterns)
	case "include_dirs":
		return appendStrings(key, value, &c.IncludeDirs)
	case "fix":
		return setBool(key, value, &c.Fix)
	case "iwyu":
		return setBool(key, value, &c.IWYU)
	case "tidy":
		return setBool(key, value, &c.Tidy)
	case "jobs":
		return setInt(key, value, &c.Jobs)
	case "mapping_files":
		var names []string
		if err := appendStrings(key, value, &names); err != nil {
			return err
		}
		for _, name := range names {
			resolved, err := FindMappingFile(projectDir, name)
			if err != nil {
				return err
			}
			c.MappingFiles = append(c.MappingFiles, resolved)
		}
	case "verbose":
		return setBool(key, value, &c.Verbose)
	default:
		log.Warn("unknown configuration key", "key", key)
	}
	return nil
}

func setBool(key string, value any, dst *bool) error {
	b, ok := value.(bool)
	if !ok {
		return errorf("value for `%s' is not a bool", key)
	}
	*dst = b
	return nil
}

func setString(key string, value any, dst *string) error {
	s, ok := value.(string)
	if !ok {
		return errorf("value for `%s' is not a string", key)
	}
	*dst = s
	return nil
}

func setInt(key string, value any, dst *int) error {
	i, ok := value.(int)
	if !ok {
		return errorf("value for `%s' is not an int", key)
	}
	*dst = i
	return nil
}

func appendStrings(key string, value any, dst *[]string) error {
	list, ok := value.([]any)
	if !ok {
		return errorf("value for `%s' is not a list", key)
	}
	for _, element := range list {
		s, ok := element.(string)
		if !ok {
			return errorf("value in `%s' is not a string", key)
		}
		*dst = append(*dst, s)
	}
	return nil
}
