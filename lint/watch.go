package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/flaglint/internal/types"
)

// DefaultDebounce groups bursts of writes to the same file into one lint run.
const DefaultDebounce = 100 * time.Millisecond

// ReportFunc receives the issues of a file re-linted after a change.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-lints supported files when they change on disk.
type Watcher struct {
	engine   LintEngine
	logger   *zap.Logger
	report   ReportFunc
	watcher  *fsnotify.Watcher
	Debounce time.Duration
}

func NewWatcher(engine LintEngine, logger *zap.Logger, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		engine:   engine,
		logger:   logger,
		report:   report,
		watcher:  fw,
		Debounce: DefaultDebounce,
	}, nil
}

// Add watches path. Directories are watched recursively, except the ones
// CollectFiles skips.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if _, skip := skipDirs[d.Name()]; skip && p != path {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
		return nil
	})
}

// Run handles file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

// handleEvent reports whether the event names a file to re-lint.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return hasDesiredExtension(event.Name) && !w.engine.IsIgnoredPath(event.Name)
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	files := make([]string, 0, len(pending))
	for f := range pending {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		issues, err := w.engine.Run(ctx, file)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				w.logger.Error("Error processing file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		w.logger.Debug("re-linted file", zap.String("file", file), zap.Int("issues", len(issues)))
		if w.report != nil {
			w.report(file, issues)
		}
	}
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce <= 0 {
		return DefaultDebounce
	}
	return w.Debounce
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
