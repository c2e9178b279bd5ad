package main

import (
	"errors"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/minic/internal/config"
)

// errReported marks failures whose diagnostic was already printed.
var errReported = errors.New("reported")

var (
	cfgFile  string
	verbose  bool
	logLevel string
	snippets bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "minic [file]",
	Short: "minic - a tiny C-like language interpreter",
	Long: `minic scans, parses and directly evaluates programs written in a small
C-like language: int variables, arithmetic and comparisons, if/else,
for loops, single-return functions, print() and input().

Running "minic FILE" is the same as "minic run FILE".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runFile(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $MINIC_CONFIG or ./minic.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace evaluation on stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|verbose|info|warning|error)")
	rootCmd.PersistentFlags().BoolVar(&snippets, "snippet", false, "show the source around syntax errors")
}

func loadConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "verbose"
	}
	if snippets {
		cfg.UI.Snippets = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ApplyLogging(); err != nil {
		return err
	}
	log.LogVf("config loaded: log=%s max_depth=%d bare_input=%s", cfg.Log.Level, *cfg.Run.MaxDepth, cfg.Run.BareInput)
	return nil
}
