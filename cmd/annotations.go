package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jcoope02/annotation-scripts/pkg/annotation"
	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
	"github.com/jcoope02/annotation-scripts/pkg/export"
	er "github.com/mcorbin/corbierror"
	"github.com/spf13/cobra"
)

type listAnnotationsOptions struct {
	last       string
	from       string
	to         string
	categories []string
	project    string
	slo        string
	format     string
	output     string
}

func buildAnnotationsCmd(logger *slog.Logger) *cobra.Command {
	annotationsCmd := &cobra.Command{
		Use:   "annotations",
		Short: "Retrieve and analyze annotations",
	}
	options := listAnnotationsOptions{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List annotations in a time window",
		Run: func(cmd *cobra.Command, args []string) {
			err := runListAnnotations(cmd, logger, options)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}
		},
	}
	listCmd.Flags().StringVar(&options.last, "last", "", "Relative time window ending now (e.g. 24h, 7d, 30d)")
	listCmd.Flags().StringVar(&options.from, "from", "", "Window start (RFC3339 UTC)")
	listCmd.Flags().StringVar(&options.to, "to", "", "Window end (RFC3339 UTC)")
	listCmd.Flags().StringArrayVar(&options.categories, "category", nil, "Only keep annotations of this type (repeatable)")
	listCmd.Flags().StringVar(&options.project, "project", "", "Only keep annotations of this project")
	listCmd.Flags().StringVar(&options.slo, "slo", "", "Only keep annotations of this SLO name")
	listCmd.Flags().StringVar(&options.format, "export", "", "Export format (csv, json)")
	listCmd.Flags().StringVar(&options.output, "output", ".", "Directory for exported files")
	annotationsCmd.AddCommand(listCmd)
	return annotationsCmd
}

func runListAnnotations(cmd *cobra.Command, logger *slog.Logger, options listAnnotationsOptions) error {
	from, to, err := resolveWindow(options)
	if err != nil {
		return err
	}
	sess, err := newSession(cmd.Context(), logger)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("fetching annotations from %s to %s", from, to))
	annotations, err := sess.client.ListAnnotations(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("retrieved %d annotations", len(annotations)))
	annotation.SortByStartTime(annotations)
	printCategoryCounts(annotation.CountCategories(annotations))
	filtered := annotation.FilterAnnotations(annotations, annotation.Filter{
		Categories: options.categories,
		Project:    options.project,
		SLO:        options.slo,
	})
	printAnnotations(filtered)
	if options.format == "" {
		return nil
	}
	return exportAnnotations(logger, sess.context.Name, options, filtered)
}

// resolveWindow turns the flags into a normalized [from, to] window. The
// retrieval path rejects an inverted window, unlike annotation creation.
func resolveWindow(options listAnnotationsOptions) (string, string, error) {
	if options.last != "" {
		if options.from != "" || options.to != "" {
			return "", "", er.New("--last cannot be combined with --from/--to", er.BadRequest, true)
		}
		duration, err := parseWindowDuration(options.last)
		if err != nil {
			return "", "", err
		}
		now := time.Now().UTC()
		return now.Add(-duration).Format(annotation.WireFormat), now.Format(annotation.WireFormat), nil
	}
	if options.from == "" || options.to == "" {
		return "", "", er.New("provide either --last or both --from and --to", er.BadRequest, true)
	}
	from, err := annotation.NormalizeTimestamp(options.from)
	if err != nil {
		return "", "", fmt.Errorf("invalid --from: %w", err)
	}
	to, err := annotation.NormalizeTimestamp(options.to)
	if err != nil {
		return "", "", fmt.Errorf("invalid --to: %w", err)
	}
	// wire timestamps compare lexicographically
	if from > to {
		return "", "", er.New("the window start is after its end", er.BadRequest, true)
	}
	return from, to, nil
}

// parseWindowDuration accepts the standard duration units plus a day suffix
// (7d), which the time package does not handle.
func parseWindowDuration(raw string) (time.Duration, error) {
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days <= 0 {
			return 0, er.Newf("invalid time window %q", er.BadRequest, true, raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	duration, err := time.ParseDuration(raw)
	if err != nil || duration <= 0 {
		return 0, er.Newf("invalid time window %q", er.BadRequest, true, raw)
	}
	return duration, nil
}

func exportAnnotations(logger *slog.Logger, contextName string, options listAnnotationsOptions, annotations []aggregates.Annotation) error {
	path := filepath.Join(options.output, export.Filename(contextName, options.format, time.Now().UTC()))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fail to create export file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Error(err.Error())
		}
	}()
	switch options.format {
	case "csv":
		err = export.WriteCSV(file, annotations)
	case "json":
		err = export.WriteJSON(file, annotations)
	default:
		return er.Newf("unsupported export format %q", er.BadRequest, true, options.format)
	}
	if err != nil {
		return err
	}
	logger.Info("annotations exported to " + path)
	return nil
}
