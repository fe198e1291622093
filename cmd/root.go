package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string
var contextName string

func Run() error {
	rootCmd := &cobra.Command{
		Use:   "annotation-scripts",
		Short: "Create and analyze SLO annotations",
	}
	var logLevel string
	var logFormat string
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the TOML configuration file (default ~/.config/nobl9/config.toml)")
	rootCmd.PersistentFlags().StringVar(&contextName, "context", "", "Name of the context to use")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Logger log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logger logs format (text, json)")

	logger := buildLogger(logLevel, logFormat, os.Stdout)
	rootCmd.AddCommand(buildAnnotateCmd(logger))
	rootCmd.AddCommand(buildAnnotationsCmd(logger))
	rootCmd.AddCommand(buildSLOCmd(logger))
	rootCmd.AddCommand(buildContextCmd(logger))
	return rootCmd.Execute()
}
