package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
)

func printSummary(summary aggregates.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("annotation creation complete: %s/%d successful\n", green(summary.Succeeded), summary.Total)
	if summary.Failed == 0 {
		return
	}
	fmt.Printf("%s failures:\n", red(summary.Failed))
	for _, failure := range summary.Failures {
		fmt.Printf("  - %s: %s\n", failure.Identity.Key(), failure.Reason)
	}
}

func printAnnotations(annotations []aggregates.Annotation) {
	cyan := color.New(color.FgCyan).SprintFunc()
	for i := range annotations {
		annotation := annotations[i]
		description := truncate(annotation.Description, 60)
		fmt.Printf("%s  %-12s %-40s %s\n", annotation.StartTime, annotation.Category, cyan(annotation.Project+"/"+annotation.SLO), description)
	}
}

// truncate shortens value to max characters, counting runes so multi-byte
// descriptions are never cut mid-character.
func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func printCategoryCounts(counts map[string]int) {
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	fmt.Println("annotation types:")
	for _, category := range categories {
		fmt.Printf("  - %s: %d annotations\n", category, counts[category])
	}
}
