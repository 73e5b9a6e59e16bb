package cmd

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/flaglint/internal"
	"github.com/gnolang/flaglint/lint"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when a lint run reports at least one issue.
var ErrIssuesFound = errors.New("issues found")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "flaglint [paths...]",
	Short:            "flaglint - lint feature flag usage and clean up retired flags",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: flaglint [path1 path2 ...] => behaves like the lint subcommand
		return lintCmd.RunE(lintCmd, args)
	},
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", lint.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the linter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(flagsCmd)
}

func setupLogger() error {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// loadConfig reads the configuration file. The default file is optional:
// when it does not exist the built-in configuration is used.
func loadConfig() (lint.Config, error) {
	explicit := rootCmd.PersistentFlags().Changed("config")
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) && !explicit {
		logger.Debug("no configuration file, using defaults", zap.String("path", cfgFile))
		return lint.DefaultConfig(), nil
	}
	return lint.LoadConfig(cfgFile)
}

func newEngine() (*internal.Engine, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return lint.NewFromConfig(config)
}
