package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
)

var csvHeader = []string{"SLO", "Project", "StartTime", "EndTime", "Type", "Name", "Description"}

// WriteCSV writes annotations as CSV with a header row, one annotation per
// line, in the given order.
func WriteCSV(w io.Writer, annotations []aggregates.Annotation) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("fail to write CSV header: %w", err)
	}
	for i := range annotations {
		annotation := annotations[i]
		record := []string{
			annotation.SLO,
			annotation.Project,
			annotation.StartTime,
			annotation.EndTime,
			annotation.Category,
			annotation.Name,
			annotation.Description,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("fail to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes annotations as an indented JSON array.
func WriteJSON(w io.Writer, annotations []aggregates.Annotation) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if annotations == nil {
		annotations = []aggregates.Annotation{}
	}
	if err := encoder.Encode(annotations); err != nil {
		return fmt.Errorf("fail to encode annotations: %w", err)
	}
	return nil
}

// Filename builds the export file name for a context and format, e.g.
// annotations_prod_20250127_100000.csv.
func Filename(context string, format string, now time.Time) string {
	return fmt.Sprintf("annotations_%s_%s.%s", context, now.Format("20060102_150405"), format)
}
