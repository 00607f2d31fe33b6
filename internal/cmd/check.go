package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hollis/semtrim/internal/cache"
	"github.com/hollis/semtrim/internal/config"
	"github.com/hollis/semtrim/internal/fcontext"
	"github.com/hollis/semtrim/internal/filelock"
	"github.com/hollis/semtrim/internal/logger"
	"github.com/hollis/semtrim/internal/semodule"
)

// InputKind classifies a check argument by file type.
type InputKind int

const (
	// KindUnknown is an unsupported file type.
	KindUnknown InputKind = iota
	// KindPackage is a compiled module package (.pp).
	KindPackage
	// KindFileContexts is a plain file-context file (.fc).
	KindFileContexts
)

// DetectKind classifies a file by extension. Compressed packages keep their
// .pp in the name (mod.pp.bz2), so the check looks at every suffix.
func DetectKind(filename string) InputKind {
	base := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.HasSuffix(base, ".fc"):
		return KindFileContexts
	case strings.HasSuffix(base, ".pp"),
		strings.HasSuffix(base, ".pp.bz2"),
		strings.HasSuffix(base, ".pp.gz"):
		return KindPackage
	default:
		return KindUnknown
	}
}

type checkOptions struct {
	configPath string
	logLevel   string
	noColor    bool
	useCache   bool
	output     string
}

// NewCheckCommand creates the 'semtrim check' command
func NewCheckCommand() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report whether module packages or file-context files label existing paths",
		Long: `Check reads each argument (a .pp module package or a .fc file-context
file) and prints one verdict line per file: "useful" when at least one path
the module labels exists on this system, "not needed" otherwise.

The first malformed pattern or package aborts the whole batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.semtrim.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log verbosity: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&opts.useCache, "cache", false, "cache verdicts keyed by file identity")
	cmd.Flags().StringVar(&opts.output, "output", "", "write the list of useful files to this path")

	return cmd
}

// runCheck executes the check command
func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noColor {
		color.NoColor = true
	}

	log := logger.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
	scanner := &fcontext.Scanner{ExtraTokens: cfg.AlwaysUseful}

	var store *cache.Store
	if opts.useCache {
		store, err = cache.NewStore(cfg.CachePath)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Debugf("verdict cache %s, run %s", cfg.CachePath, store.RunID())
	}

	var useful []string
	for _, arg := range args {
		ok, err := checkFile(scanner, store, log, arg)
		if err != nil {
			// Fail-fast batch semantics: one bad input stops the run.
			return fmt.Errorf("%s: %w", arg, err)
		}
		printVerdict(cmd.OutOrStdout(), arg, ok)
		if ok {
			useful = append(useful, arg)
		}
	}

	if opts.output != "" {
		if err := writeReport(opts.output, useful); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Infof("wrote %d useful file(s) to %s", len(useful), opts.output)
	}
	return nil
}

// checkFile decides one input file, consulting the verdict cache for module
// packages when enabled.
func checkFile(scanner *fcontext.Scanner, store *cache.Store, log *logger.Console, path string) (bool, error) {
	kind := DetectKind(path)
	if kind == KindUnknown {
		return false, fmt.Errorf("unsupported file type (want .pp or .fc)")
	}

	var key cache.Key
	if store != nil && kind == KindPackage {
		k, err := cache.KeyFor(path)
		if err != nil {
			return false, err
		}
		key = k
		if useful, ok, err := store.Get(key); err != nil {
			return false, err
		} else if ok {
			log.Debugf("cache hit for %s", path)
			return useful, nil
		}
	}

	var (
		useful bool
		err    error
	)
	switch kind {
	case KindPackage:
		var fc string
		fc, err = semodule.ReadFileContexts(path)
		if err == nil {
			useful, err = scanner.Useful(fc)
		}
	case KindFileContexts:
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			useful, err = scanner.Useful(string(data))
		}
	}
	if err != nil {
		return false, err
	}

	if store != nil && kind == KindPackage {
		if err := store.Put(key, useful); err != nil {
			// A cache write failure must not change the verdict.
			log.Warnf("cache write for %s failed: %v", path, err)
		}
	}
	return useful, nil
}

func printVerdict(w io.Writer, path string, useful bool) {
	verdict := color.New(color.FgRed).Sprint("not needed")
	if useful {
		verdict = color.New(color.FgGreen).Sprint("useful")
	}
	fmt.Fprintf(w, "%s\t%s\n", verdict, path)
}

// writeReport writes the useful-file list atomically under a file lock, so
// concurrent runs sharing an output path cannot interleave.
func writeReport(path string, useful []string) error {
	var b strings.Builder
	for _, f := range useful {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return filelock.WithLock(path, func() error {
		return filelock.WriteAtomic(path, []byte(b.String()), 0o644)
	})
}
