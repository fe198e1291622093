package aggregates

import (
	cataggregates "github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
)

// Request is one annotation to create: a globally-unique identifier, the
// target SLO, a description and a time range in wire format. Built once per
// resolved SLO at submission time and never mutated afterwards.
type Request struct {
	ID          string
	Identity    cataggregates.Identity
	Description string
	StartTime   string
	EndTime     string
}

// Outcome records the result of submitting one request. Err is nil on
// success.
type Outcome struct {
	Request Request
	Err     error
}

func (o Outcome) Success() bool {
	return o.Err == nil
}

type Failure struct {
	Identity cataggregates.Identity
	Reason   string
}

// Summary aggregates the outcomes of one batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Annotation is one annotation as returned by the retrieval endpoint.
type Annotation struct {
	Name        string `json:"name"`
	Project     string `json:"project"`
	SLO         string `json:"slo"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}
