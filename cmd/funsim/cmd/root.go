// Package cmd provides the command-line interface of funsim.
package cmd

import (
	"fmt"

	"github.com/sarchlab/funsim/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	logLevel string
	envFiles []string
	env      config.Env
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "funsim",
	Short: "funsim simulates networks of functional units.",
	Long: `funsim builds the functional unit networks described in a ` +
		`scenario file, bridges them, and runs them on a discrete event ` +
		`engine. Runs can be recorded into SQLite and watched through a ` +
		`web monitor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		env, err = config.LoadEnv(envFiles...)
		if err != nil {
			return err
		}

		level := logLevel
		if level == "" {
			level = env.LogLevel
		}

		if level == "" {
			level = "info"
		}

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q", level)
		}

		logrus.SetLevel(parsed)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"panic, fatal, error, warn, info, debug or trace")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		".env files to load before reading FUNSIM_ variables")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(reportCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Failing commands exit through atexit, so that pending
// recordings are flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
