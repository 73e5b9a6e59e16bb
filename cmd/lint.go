package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/flaglint/formatter"
	"github.com/gnolang/flaglint/internal"
	"github.com/gnolang/flaglint/internal/report"
	tt "github.com/gnolang/flaglint/internal/types"
	"github.com/gnolang/flaglint/lint"
)

var (
	ignoreRules     string
	ignorePaths     string
	lintJsonOutput  bool
	lintSarifOutput bool
	outPath         string
	watchMode       bool
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatSARIF
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		if lintJsonOutput && lintSarifOutput {
			return fmt.Errorf("--json and --sarif are mutually exclusive")
		}

		engine, err := newEngine()
		if err != nil {
			return fmt.Errorf("failed to initialize lint engine: %w", err)
		}
		applyIgnores(engine, ignoreRules, ignorePaths)

		if watchMode {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return runWatch(ctx, logger, engine, args, cmd.OutOrStdout())
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		format := formatText
		switch {
		case lintJsonOutput:
			format = formatJSON
		case lintSarifOutput:
			format = formatSARIF
		}

		var out io.Writer = cmd.OutOrStdout()
		if outPath != "" && format != formatText {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("error creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return runNormalLintProcess(ctx, logger, engine, args, format, out)
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().BoolVar(&lintSarifOutput, "sarif", false, "Output issues as a SARIF 2.1.0 report")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON or SARIF)")
	lintCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-lint files as they change")
}

func applyIgnores(engine lint.LintEngine, rules, paths string) {
	for _, rule := range splitList(rules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(paths) {
		engine.IgnorePath(path)
	}
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func runNormalLintProcess(
	ctx context.Context,
	logger *zap.Logger,
	engine lint.LintEngine,
	paths []string,
	format outputFormat,
	out io.Writer,
) error {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	if err := printIssues(logger, out, issues, format); err != nil {
		return err
	}

	if len(issues) > 0 {
		return ErrIssuesFound
	}
	return nil
}

func printIssues(logger *zap.Logger, out io.Writer, issues []tt.Issue, format outputFormat) error {
	switch format {
	case formatJSON:
		return report.WriteJSON(out, issues)
	case formatSARIF:
		runID := uuid.New().String()
		logger.Debug("writing SARIF report", zap.String("runId", runID), zap.Int("issues", len(issues)))
		return report.WriteSARIF(out, issues, runID)
	}

	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		fileIssues := issuesByFile[filename]
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprintln(out, formatter.GenerateFormattedIssue(fileIssues, sourceCode))
	}
	return nil
}

// runWatch lints paths once, then re-lints changed files until ctx is done.
func runWatch(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, out io.Writer) error {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}
	if err := printIssues(logger, out, issues, formatText); err != nil {
		return err
	}

	w, err := lint.NewWatcher(engine, logger, func(filename string, issues []tt.Issue) {
		if len(issues) == 0 {
			fmt.Fprintf(out, "no issues found in %s\n", filename)
			return
		}
		_ = printIssues(logger, out, issues, formatText)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "watching %d path(s) for changes, press Ctrl+C to stop\n", len(paths))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
