package annotation

import (
	"fmt"
	"strings"
	"time"
)

// WireFormat is the timestamp format required by the annotations API: UTC,
// second precision, literal Z, no fractional seconds.
const WireFormat = "2006-01-02T15:04:05Z"

// ValidationError reports a user-supplied value the engine cannot use.
type ValidationError struct {
	Reason string
	Input  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Input)
}

// NormalizeTimestamp validates a user-supplied timestamp and returns it in
// wire format. One malformed pattern seen in practice is repaired instead of
// rejected: an extra colon-separated segment between the seconds and the
// trailing Z (e.g. "2025-01-27T10:00:00:11Z"). Anything else that does not
// parse as an RFC3339 instant with an explicit Z fails.
func NormalizeTimestamp(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, " ", "")
	if strings.Contains(cleaned, "::") {
		return "", &ValidationError{Reason: "invalid timestamp", Input: raw}
	}
	if strings.HasSuffix(cleaned, "Z") && strings.Count(cleaned, ":") > 2 {
		trimmed := strings.TrimSuffix(cleaned, "Z")
		if idx := strings.LastIndex(trimmed, ":"); idx != -1 {
			cleaned = trimmed[:idx] + "Z"
		}
	}
	if !strings.HasSuffix(cleaned, "Z") {
		return "", &ValidationError{Reason: "invalid timestamp", Input: raw}
	}
	parsed, err := time.Parse(time.RFC3339, cleaned)
	if err != nil {
		return "", &ValidationError{Reason: "invalid timestamp", Input: raw}
	}
	return parsed.UTC().Format(WireFormat), nil
}
