package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/flaglint/internal/fixer"
	"github.com/gnolang/flaglint/lint"
)

var (
	dryRun              bool
	confidenceThreshold float64
	maxPasses           int
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Automatically clean up feature flag code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		if confidenceThreshold < 0 || confidenceThreshold > 1 {
			return fmt.Errorf("--confidence must be between 0.0 and 1.0, got %v", confidenceThreshold)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// initialize the lint engine
		engine, err := newEngine()
		if err != nil {
			return fmt.Errorf("failed to initialize lint engine: %w", err)
		}

		fix := fixer.New(dryRun, confidenceThreshold)
		fix.MaxPasses = maxPasses
		fix.Out = cmd.OutOrStdout()

		return runAutoFix(ctx, logger, engine, fix, args, cmd.OutOrStdout())
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().Float64Var(&confidenceThreshold, "confidence", 0.5, "Confidence threshold for auto-fixing (0.0 to 1.0)")
	fixCmd.Flags().IntVar(&maxPasses, "passes", fixer.DefaultMaxPasses, "Maximum lint/fix passes per file")
}

func runAutoFix(
	ctx context.Context,
	logger *zap.Logger,
	engine lint.LintEngine,
	fix *fixer.Fixer,
	paths []string,
	out io.Writer,
) error {
	results, err := lint.FixPaths(ctx, logger, engine, fix, paths)

	files := make([]string, 0, len(results))
	for file := range results {
		files = append(files, file)
	}
	sort.Strings(files)

	verb := "Fixed"
	if fix.DryRun {
		verb = "Would fix"
	}
	for _, file := range files {
		r := results[file]
		fmt.Fprintf(out, "%s %d issue(s) in %s (%d pass(es))\n", verb, r.Applied, file, r.Passes)
	}
	return err
}
