package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jcoope02/annotation-scripts/pkg/annotation"
	"github.com/jcoope02/annotation-scripts/pkg/catalog"
	cataggregates "github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"github.com/jcoope02/annotation-scripts/pkg/expand"
	er "github.com/mcorbin/corbierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type annotateOptions struct {
	project        string
	service        string
	slos           []string
	composite      string
	description    string
	linkText       string
	linkURL        string
	start          string
	end            string
	fromFile       string
	workers        uint
	timeout        time.Duration
	metricsAddress string
	dryRun         bool
}

func buildAnnotateCmd(logger *slog.Logger) *cobra.Command {
	options := annotateOptions{}
	annotateCmd := &cobra.Command{
		Use:   "annotate",
		Short: "Create one annotation per SLO in the selected scope",
		Run: func(cmd *cobra.Command, args []string) {
			err := runAnnotate(cmd, logger, options)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}
		},
	}
	annotateCmd.Flags().StringVar(&options.project, "project", "", "Annotate every SLO of this project")
	annotateCmd.Flags().StringVar(&options.service, "service", "", "Annotate every SLO of this service (requires --project)")
	annotateCmd.Flags().StringArrayVar(&options.slos, "slo", nil, "Annotate this SLO, as project/name (repeatable)")
	annotateCmd.Flags().StringVar(&options.composite, "composite", "", "Annotate this composite SLO and its components, as project/name")
	annotateCmd.Flags().StringVar(&options.description, "description", "", "Annotation description")
	annotateCmd.Flags().StringVar(&options.linkText, "link-text", "", "Optional hyperlink text appended to the description")
	annotateCmd.Flags().StringVar(&options.linkURL, "link-url", "", "URL for --link-text")
	annotateCmd.Flags().StringVar(&options.start, "start", "", "Annotation start time (RFC3339 UTC, e.g. 2025-01-27T10:00:00Z)")
	annotateCmd.Flags().StringVar(&options.end, "end", "", "Annotation end time (RFC3339 UTC)")
	annotateCmd.Flags().StringVar(&options.fromFile, "from-file", "", "Read the SLO listing from a sloctl export file instead of the API")
	annotateCmd.Flags().UintVar(&options.workers, "workers", 4, "Number of parallel submissions")
	annotateCmd.Flags().DurationVar(&options.timeout, "timeout", 30*time.Second, "Timeout for one annotation submission")
	annotateCmd.Flags().StringVar(&options.metricsAddress, "metrics-address", "", "Expose Prometheus metrics on this address for the duration of the run")
	annotateCmd.Flags().BoolVar(&options.dryRun, "dry-run", false, "Resolve and print the target SLOs without creating annotations")
	for _, flag := range []string{"description", "start", "end"} {
		if err := annotateCmd.MarkFlagRequired(flag); err != nil {
			logger.Error(err.Error())
			os.Exit(2)
		}
	}
	return annotateCmd
}

func runAnnotate(cmd *cobra.Command, logger *slog.Logger, options annotateOptions) error {
	scope, err := buildScope(options)
	if err != nil {
		return err
	}
	description := options.description
	if options.linkText != "" {
		if options.linkURL == "" {
			logger.Warn("a URL is required when link text is provided, skipping link addition")
		} else {
			description += fmt.Sprintf("\n\n[%s](%s)", options.linkText, options.linkURL)
		}
	}

	var sess *session
	var listing []cataggregates.SLO
	if options.fromFile != "" {
		listing, err = readListingFile(options.fromFile)
	} else {
		sess, err = newSession(cmd.Context(), logger)
		if err != nil {
			return err
		}
		listing, err = sess.client.ListSLOs(cmd.Context())
	}
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("retrieved %d SLOs", len(listing)))

	cat := catalog.Build(listing)
	expansion, err := expand.Expand(scope, cat)
	if err != nil {
		return err
	}
	for _, unresolved := range expansion.Unresolved {
		logger.Warn(fmt.Sprintf("composite component %s not found in the SLO listing, skipping it", unresolved.Key()))
	}
	if len(expansion.Records) == 0 {
		logger.Warn("no SLO matched the selected scope, nothing to do")
		return nil
	}
	if options.dryRun {
		printTargets(expansion.Records)
		return nil
	}
	if sess == nil {
		sess, err = newSession(cmd.Context(), logger)
		if err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	if options.metricsAddress != "" {
		serveMetrics(logger, options.metricsAddress, registry)
	}
	service, err := annotation.New(logger, sess.client, annotation.Configuration{
		Workers: options.workers,
		Timeout: options.timeout,
	}, registry)
	if err != nil {
		return err
	}
	outcomes, err := service.SubmitBatch(cmd.Context(), expansion.Records, description, options.start, options.end)
	if err != nil {
		return err
	}
	summary := annotation.Summarize(outcomes)
	printSummary(summary)
	if summary.Failed == summary.Total {
		return fmt.Errorf("all %d annotation submissions failed", summary.Total)
	}
	return nil
}

// buildScope maps the selection flags onto a target scope. Exactly one
// selector is allowed.
func buildScope(options annotateOptions) (expand.Scope, error) {
	selectors := 0
	for _, set := range []bool{options.project != "" && options.service == "", options.service != "", len(options.slos) > 0, options.composite != ""} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, er.New("select exactly one of --project, --service, --slo or --composite", er.BadRequest, true)
	}
	switch {
	case options.service != "":
		if options.project == "" {
			return nil, er.New("--service requires --project", er.BadRequest, true)
		}
		return expand.ServiceScope{Project: options.project, Name: options.service}, nil
	case options.project != "":
		return expand.ProjectScope{Name: options.project}, nil
	case len(options.slos) > 0:
		identities := make([]cataggregates.Identity, 0, len(options.slos))
		for _, raw := range options.slos {
			identity, err := parseIdentity(raw)
			if err != nil {
				return nil, err
			}
			identities = append(identities, identity)
		}
		return expand.IdentitySet{Identities: identities}, nil
	default:
		identity, err := parseIdentity(options.composite)
		if err != nil {
			return nil, err
		}
		return expand.CompositeScope{Identity: identity}, nil
	}
}

func parseIdentity(raw string) (cataggregates.Identity, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return cataggregates.Identity{}, er.Newf("invalid SLO reference %q, expected project/name", er.BadRequest, true, raw)
	}
	return cataggregates.Identity{Project: parts[0], Name: parts[1]}, nil
}

func readListingFile(path string) ([]cataggregates.SLO, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fail to read SLO listing file: %w", err)
	}
	if filepath.Ext(path) == ".json" {
		return catalog.DecodeListing(data)
	}
	return catalog.DecodeListingYAML(data)
}

func serveMetrics(logger *slog.Logger, address string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		logger.Info("metrics available on " + address)
		if err := http.ListenAndServe(address, mux); err != nil {
			logger.Error(fmt.Sprintf("metrics server error: %s", err.Error()))
		}
	}()
}

func printTargets(records []cataggregates.SLO) {
	cyan := color.New(color.FgCyan).SprintFunc()
	for i, record := range records {
		marker := ""
		if record.Composite {
			marker = " [composite]"
		}
		fmt.Printf("  [%d] %s%s\n", i+1, cyan(record.Identity.String()), marker)
	}
}
