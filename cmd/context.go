package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func buildContextCmd(logger *slog.Logger) *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Inspect the configured contexts",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the contexts found in the configuration file",
		Run: func(cmd *cobra.Command, args []string) {
			err := runListContexts()
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}
		},
	}
	contextCmd.AddCommand(listCmd)
	return contextCmd
}

func runListContexts() error {
	configuration, err := loadConfiguration()
	if err != nil {
		return err
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	for i, context := range configuration.Contexts {
		line := fmt.Sprintf("  [%d] %s", i+1, cyan(context.Name))
		if context.SelfHosted() {
			line += fmt.Sprintf(" (custom: %s)", context.URL)
		}
		if strings.EqualFold(context.Name, configuration.DefaultContext) {
			line += " (default)"
		}
		fmt.Println(line)
	}
	return nil
}
