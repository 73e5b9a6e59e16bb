package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/flaglint/internal"
	"github.com/gnolang/flaglint/internal/fixer"
	"github.com/gnolang/flaglint/internal/jsast"
	tt "github.com/gnolang/flaglint/internal/types"
)

type LintEngine interface {
	Run(ctx context.Context, filePath string) ([]tt.Issue, error)
	RunSource(ctx context.Context, filename string, source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
	IsIgnoredPath(path string) bool
}

// New creates an engine from a configuration file. An empty path selects
// the default configuration.
func New(configurationPath string) (*internal.Engine, error) {
	config := DefaultConfig()
	if configurationPath != "" {
		var err error
		config, err = LoadConfig(configurationPath)
		if err != nil {
			return nil, err
		}
	}
	return NewFromConfig(config)
}

// NewFromConfig creates an engine from an already loaded configuration.
func NewFromConfig(config Config) (*internal.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	flags, err := config.Flags()
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(flags, config.Rules)
}

// Processor lints a single file.
type Processor func(ctx context.Context, engine LintEngine, filePath string) ([]tt.Issue, error)

// ProgressOutput receives the progress bar drawn while a directory is linted.
// A nil writer disables it.
var ProgressOutput io.Writer = os.Stderr

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor Processor,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allIssues, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints a file or every supported file below a directory.
// Directory files are processed on a worker pool bounded by the CPU count.
// A file that fails is logged and skipped.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor Processor,
) ([]tt.Issue, error) {
	files, err := CollectFiles(path)
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, file := range files {
		if !engine.IsIgnoredPath(file) {
			kept = append(kept, file)
		}
	}
	if len(kept) == 0 {
		return []tt.Issue{}, nil
	}
	if len(kept) == 1 && kept[0] == path {
		return processor(ctx, engine, path)
	}

	bar := newProgressBar(len(kept), path)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		issues = make([]tt.Issue, 0)
	)

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())

dispatch:
	for _, filePath := range kept {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileIssues, err := processor(ctx, engine, fp)
			if bar != nil {
				bar.Describe(filepath.Base(fp))
				_ = bar.Add(1)
			}
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return
			}

			mu.Lock()
			issues = append(issues, fileIssues...)
			mu.Unlock()
		}(filePath)
	}
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	sortIssues(issues)
	if err := ctx.Err(); err != nil {
		return issues, err
	}
	return issues, nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	if ProgressOutput == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func ProcessFile(ctx context.Context, engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(ctx, filePath)
}

func ProcessSource(ctx context.Context, engine LintEngine, filename string, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(ctx, filename, source)
}

// FixPaths applies the fixes of every supported file below paths, one file
// at a time. Failing files are logged and reported in the returned error;
// the others are still fixed.
func FixPaths(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	fix *fixer.Fixer,
	paths []string,
) (map[string]fixer.Result, error) {
	results := make(map[string]fixer.Result)
	var errs []error
	for _, path := range paths {
		files, err := CollectFiles(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			if engine.IsIgnoredPath(file) {
				continue
			}
			result, err := fix.Fix(ctx, engine, file)
			if err != nil {
				if logger != nil {
					logger.Error("error fixing issues", zap.String("file", file), zap.Error(err))
				}
				errs = append(errs, fmt.Errorf("%s: %w", file, err))
				continue
			}
			if result.Changed() {
				results[file] = result
				if logger != nil {
					logger.Debug("fixed file",
						zap.String("file", file),
						zap.Int("edits", result.Applied),
						zap.Int("passes", result.Passes))
				}
			}
		}
	}
	return results, errors.Join(errs...)
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"build":        {},
	"dist":         {},
	"coverage":     {},
	".next":        {},
	".turbo":       {},
}

// CollectFiles returns the supported source files of path. A file is
// returned as is when its extension is supported. Directories are walked,
// skipping dependency and build directories and anything matched by the
// root .gitignore.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if hasDesiredExtension(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	gi := loadGitignore(path)

	var files []string
	err = filepath.WalkDir(path, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		name := d.Name()
		if d.IsDir() {
			if filePath == path {
				return nil
			}
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}
		}

		rel, err := filepath.Rel(path, filePath)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && d.Type()&os.ModeSymlink == 0 && hasDesiredExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func hasDesiredExtension(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	return jsast.Supported(path)
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
}
