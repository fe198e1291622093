package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jcoope02/annotation-scripts/pkg/catalog"
	"github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
)

// ListSLOs fetches the definitions of every SLO visible to the session,
// across all projects.
func (c *Client) ListSLOs(ctx context.Context) ([]aggregates.SLO, error) {
	var listing json.RawMessage
	headers := map[string]string{"Project": "*"}
	err := c.do(ctx, http.MethodGet, "/api/get/slo", nil, headers, nil, &listing)
	if err != nil {
		return nil, fmt.Errorf("fail to list SLOs: %w", err)
	}
	return catalog.DecodeListing(listing)
}
