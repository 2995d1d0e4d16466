package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/prplanit/clank/src/check"
	"github.com/prplanit/clank/src/compdb"
	"github.com/prplanit/clank/src/config"
	"github.com/prplanit/clank/src/output"
)

var (
	checkExclude       []string
	checkInclude       []string
	checkJobs          int
	checkMapping       []string
	checkNoAutoHeaders bool
	checkNoIWYU        bool
	checkNoTidy        bool
	checkFix           bool
	checkChanged       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [build_dir]",
	Short: "Run all checks over a build directory",
	Long: `Run clang-tidy and include-what-you-use over every file in the build
directory's compilation database. The project configuration is read from
.clank.yml or .clank.json next to the build directory, then overridden by
flags. Exits nonzero if any check fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringArrayVar(&checkExclude, "exclude", nil, "regular expression for files to ignore (repeatable)")
	checkCmd.Flags().StringArrayVar(&checkInclude, "include", nil, "directory of extra headers to check (repeatable)")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "maximum number of parallel tasks (default: CPU count)")
	checkCmd.Flags().StringArrayVar(&checkMapping, "mapping", nil, "add include-what-you-use mapping file (repeatable)")
	checkCmd.Flags().BoolVar(&checkNoAutoHeaders, "no-auto-headers", false, "don't also check headers in the source's language")
	checkCmd.Flags().BoolVar(&checkNoIWYU, "no-iwyu", false, "don't run include-what-you-use")
	checkCmd.Flags().BoolVar(&checkNoTidy, "no-tidy", false, "don't run clang-tidy")
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "let clang-tidy apply suggested fixes")
	checkCmd.Flags().BoolVar(&checkChanged, "changed", false, "only check files changed per git")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	buildDir := "build"
	if len(args) > 0 {
		buildDir = args[0]
	}

	buildDir, err := filepath.Abs(buildDir)
	if err != nil {
		return err
	}
	projectDir := filepath.Dir(buildDir)

	cfg, err := loadConfig(cmd, projectDir)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	sources, headers, commands, includeFlags, err := collectFiles(cmd, cfg, buildDir, projectDir)
	if err != nil {
		return err
	}

	tasks := check.BuildTasks(sources, headers, commands, includeFlags, cfg.IWYU, cfg.Tidy)
	if len(tasks) == 0 {
		log.Info("nothing to check")
		return nil
	}

	opts := check.Options{
		Verbose:      cfg.Verbose,
		Fix:          cfg.Fix,
		AutoHeaders:  cfg.AutoHeaders,
		MappingFiles: cfg.MappingFiles,
		ProjectDir:   projectDir,
		BuildDir:     buildDir,
	}

	scheduler := &check.Scheduler{
		Runner:  &check.ExecRunner{Dir: buildDir, Verbose: cfg.Verbose},
		Console: output.NewConsole(),
	}

	log.Info("entering directory", "dir", buildDir)
	result := scheduler.RunAll(cmd.Context(), tasks, opts, cfg.Jobs)
	log.Info("leaving directory", "dir", buildDir)

	if result.ExitCode != 0 {
		return fmt.Errorf("%d of %d checks failed", result.Failed, len(tasks))
	}
	return nil
}

// loadConfig merges defaults, the project config file, and command-line
// flags, highest priority last.
func loadConfig(cmd *cobra.Command, projectDir string) (config.Config, error) {
	var cfg config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile, projectDir)
	} else {
		cfg, err = config.Load(projectDir)
	}
	if err != nil {
		return cfg, err
	}

	cfg.ExcludePatterns = append(cfg.ExcludePatterns, checkExclude...)
	cfg.IncludeDirs = append(cfg.IncludeDirs, checkInclude...)
	for _, name := range checkMapping {
		resolved, err := config.FindMappingFile(projectDir, name)
		if err != nil {
			return cfg, err
		}
		cfg.MappingFiles = append(cfg.MappingFiles, resolved)
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = checkJobs
	}
	if checkNoAutoHeaders {
		cfg.AutoHeaders = false
	}
	if checkNoIWYU {
		cfg.IWYU = false
	}
	if checkNoTidy {
		cfg.Tidy = false
	}
	if checkFix {
		cfg.Fix = true
	}
	if verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}

// collectFiles loads the compilation database and derives the filtered
// source and header lists, all relative to the build directory.
func collectFiles(cmd *cobra.Command, cfg config.Config, buildDir, projectDir string) (sources, headers []string, commands map[string][]string, includeFlags []string, err error) {
	entries, err := compdb.Load(filepath.Join(buildDir, compdb.FileName))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	commands, err = compdb.Commands(entries)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	sources = compdb.SourceFiles(commands)
	includeFlags = compdb.IncludeFlags(commands)

	// Walk extra include dirs by absolute path, but report headers relative
	// to the build dir for consistency with the database's source paths.
	var absDirs []string
	for _, dir := range cfg.IncludeDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		absDirs = append(absDirs, abs)
	}
	absHeaders, err := compdb.HeaderFiles(absDirs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	for _, header := range absHeaders {
		rel, err := filepath.Rel(buildDir, header)
		if err != nil {
			rel = header
		}
		headers = append(headers, rel)
	}

	sources, headers, err = compdb.Filter(sources, headers, cfg.ExcludePatterns)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if checkChanged {
		delta := &compdb.Delta{ProjectDir: projectDir}
		changed, err := delta.ChangedFiles(cmd.Context())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if changed != nil {
			sources = compdb.FilterChanged(sources, buildDir, projectDir, changed)
			headers = compdb.FilterChanged(headers, buildDir, projectDir, changed)
			log.Debug("changed-only mode", "sources", len(sources), "headers", len(headers))
		}
	}

	return sources, headers, commands, includeFlags, nil
}
