package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
)

type annotationPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Project     string `json:"project"`
	SLO         string `json:"slo"`
}

// CreateAnnotation submits one annotation. The request identifier becomes
// the annotation name, which the API requires to be unique.
func (c *Client) CreateAnnotation(ctx context.Context, request aggregates.Request) error {
	payload := annotationPayload{
		Name:        request.ID,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Project:     request.Identity.Project,
		SLO:         request.Identity.Name,
	}
	return c.do(ctx, http.MethodPost, "/api/annotations", nil, nil, payload, nil)
}

// ListAnnotations fetches every annotation overlapping the [from, to] window
// across all projects. Depending on the instance the endpoint answers with a
// bare array or an object wrapping it, both are accepted.
func (c *Client) ListAnnotations(ctx context.Context, from string, to string) ([]aggregates.Annotation, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	headers := map[string]string{"Project": "*"}
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/annotations", query, headers, nil, &raw)
	if err != nil {
		return nil, fmt.Errorf("fail to list annotations: %w", err)
	}
	var annotations []aggregates.Annotation
	if err := json.Unmarshal(raw, &annotations); err == nil {
		return annotations, nil
	}
	var wrapped struct {
		Annotations []aggregates.Annotation `json:"annotations"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("fail to decode annotations response: %w", err)
	}
	return wrapped.Annotations, nil
}
