package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/jcoope02/annotation-scripts/pkg/catalog"
	cataggregates "github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"github.com/spf13/cobra"
)

func buildSLOCmd(logger *slog.Logger) *cobra.Command {
	sloCmd := &cobra.Command{
		Use:   "slo",
		Short: "Inspect the SLOs visible to the session",
	}
	var fromFile string
	var project string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List SLOs with their project, service and composite components",
		Run: func(cmd *cobra.Command, args []string) {
			err := runListSLOs(cmd, logger, fromFile, project)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}
		},
	}
	listCmd.Flags().StringVar(&fromFile, "from-file", "", "Read the SLO listing from a sloctl export file instead of the API")
	listCmd.Flags().StringVar(&project, "project", "", "Only list SLOs of this project")
	sloCmd.AddCommand(listCmd)
	return sloCmd
}

func runListSLOs(cmd *cobra.Command, logger *slog.Logger, fromFile string, project string) error {
	var listing []cataggregates.SLO
	var err error
	if fromFile != "" {
		listing, err = readListingFile(fromFile)
	} else {
		var sess *session
		sess, err = newSession(cmd.Context(), logger)
		if err != nil {
			return err
		}
		listing, err = sess.client.ListSLOs(cmd.Context())
	}
	if err != nil {
		return err
	}
	cat := catalog.Build(listing)
	records := cat.All()
	if project != "" {
		records = cat.ByProject(project)
	}
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for i, record := range records {
		line := fmt.Sprintf("  [%d] %s (project: %s, service: %s)", i+1, green(record.Identity.Name), record.Identity.Project, record.Identity.Service)
		if record.Composite {
			line += " " + yellow(fmt.Sprintf("[composite, %d components]", len(record.Components)))
		}
		fmt.Println(line)
	}
	logger.Info(fmt.Sprintf("%d SLOs, %d composites", cat.Size(), len(cat.Composites())))
	return nil
}
