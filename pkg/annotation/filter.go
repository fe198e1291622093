package annotation

import (
	"sort"

	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
)

// Filter narrows a retrieved annotation list. Empty fields match everything.
type Filter struct {
	Categories []string
	Project    string
	SLO        string
}

func (f Filter) matches(annotation aggregates.Annotation) bool {
	if f.Project != "" && annotation.Project != f.Project {
		return false
	}
	if f.SLO != "" && annotation.SLO != f.SLO {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	for _, category := range f.Categories {
		if annotation.Category == category {
			return true
		}
	}
	return false
}

func FilterAnnotations(annotations []aggregates.Annotation, filter Filter) []aggregates.Annotation {
	result := []aggregates.Annotation{}
	for i := range annotations {
		if filter.matches(annotations[i]) {
			result = append(result, annotations[i])
		}
	}
	return result
}

// SortByStartTime orders annotations newest first. Wire timestamps sort
// lexicographically.
func SortByStartTime(annotations []aggregates.Annotation) {
	sort.SliceStable(annotations, func(i, j int) bool {
		return annotations[i].StartTime > annotations[j].StartTime
	})
}

// CountCategories returns the number of annotations per category. Unset
// categories are counted as "Unknown".
func CountCategories(annotations []aggregates.Annotation) map[string]int {
	counts := make(map[string]int)
	for i := range annotations {
		category := annotations[i].Category
		if category == "" {
			category = "Unknown"
		}
		counts[category]++
	}
	return counts
}
