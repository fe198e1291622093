package catalog_test

import (
	"testing"

	"github.com/jcoope02/annotation-scripts/pkg/catalog"
	"github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"github.com/stretchr/testify/assert"
)

func testListing() []aggregates.SLO {
	return []aggregates.SLO{
		{Identity: aggregates.Identity{Name: "api-latency", Project: "payments", Service: "api"}},
		{Identity: aggregates.Identity{Name: "api-availability", Project: "payments", Service: "api"}},
		{Identity: aggregates.Identity{Name: "worker-latency", Project: "payments", Service: "worker"}},
		{Identity: aggregates.Identity{Name: "checkout", Project: "shop", Service: "front"}},
		{
			Identity:  aggregates.Identity{Name: "payments-overall", Project: "payments", Service: "api"},
			Composite: true,
			Components: []aggregates.Identity{
				{Name: "api-latency", Project: "payments"},
				{Name: "worker-latency", Project: "payments"},
			},
		},
	}
}

func TestCatalogLookups(t *testing.T) {
	cat := catalog.Build(testListing())
	assert.Equal(t, 5, cat.Size())

	byProject := cat.ByProject("payments")
	assert.Len(t, byProject, 4)
	assert.Equal(t, "api-latency", byProject[0].Identity.Name)
	assert.Equal(t, "api-availability", byProject[1].Identity.Name)
	assert.Equal(t, "worker-latency", byProject[2].Identity.Name)
	assert.Equal(t, "payments-overall", byProject[3].Identity.Name)

	byService := cat.ByService("payments", "api")
	assert.Len(t, byService, 3)
	assert.Equal(t, "api-latency", byService[0].Identity.Name)

	assert.Empty(t, cat.ByProject("unknown"))
	assert.Empty(t, cat.ByService("payments", "unknown"))

	record, ok := cat.ByIdentity(aggregates.Identity{Name: "checkout", Project: "shop"})
	assert.True(t, ok)
	assert.Equal(t, "front", record.Identity.Service)

	// the service part of the identity is ignored on lookup
	record, ok = cat.ByIdentity(aggregates.Identity{Name: "checkout", Project: "shop", Service: "whatever"})
	assert.True(t, ok)
	assert.Equal(t, "checkout", record.Identity.Name)

	_, ok = cat.ByIdentity(aggregates.Identity{Name: "missing", Project: "shop"})
	assert.False(t, ok)

	composites := cat.Composites()
	assert.Len(t, composites, 1)
	assert.Equal(t, "payments-overall", composites[0].Identity.Name)
	assert.Len(t, composites[0].Components, 2)

	assert.Equal(t, []string{"payments", "shop"}, cat.Projects())
	assert.Equal(t, []string{"api", "worker"}, cat.Services("payments"))
}

func TestCatalogKeepsFirstDuplicate(t *testing.T) {
	listing := []aggregates.SLO{
		{Identity: aggregates.Identity{Name: "dup", Project: "p"}, DisplayName: "first"},
		{Identity: aggregates.Identity{Name: "dup", Project: "p"}, DisplayName: "second"},
	}
	cat := catalog.Build(listing)
	assert.Equal(t, 1, cat.Size())
	record, ok := cat.ByIdentity(aggregates.Identity{Name: "dup", Project: "p"})
	assert.True(t, ok)
	assert.Equal(t, "first", record.DisplayName)
}

const jsonListing = `[
  {
    "apiVersion": "n9/v1alpha",
    "kind": "SLO",
    "metadata": {"name": "api-latency", "displayName": "API latency", "project": "payments"},
    "spec": {
      "description": "p99 latency",
      "service": "api",
      "objectives": [{"name": "good"}]
    }
  },
  {
    "apiVersion": "n9/v1alpha",
    "kind": "SLO",
    "metadata": {"name": "payments-overall", "project": "payments"},
    "spec": {
      "service": "api",
      "objectives": [
        {
          "name": "overall",
          "composite": {
            "components": {
              "objectives": [
                {"project": "payments", "slo": "api-latency"},
                {"project": "payments", "slo": "worker-latency"}
              ]
            }
          }
        }
      ]
    }
  }
]`

func TestDecodeListing(t *testing.T) {
	listing, err := catalog.DecodeListing([]byte(jsonListing))
	assert.NoError(t, err)
	assert.Len(t, listing, 2)

	first := listing[0]
	assert.Equal(t, "api-latency", first.Identity.Name)
	assert.Equal(t, "payments", first.Identity.Project)
	assert.Equal(t, "api", first.Identity.Service)
	assert.Equal(t, "API latency", first.DisplayName)
	assert.NotNil(t, first.Description)
	assert.Equal(t, "p99 latency", *first.Description)
	assert.False(t, first.Composite)

	composite := listing[1]
	assert.Equal(t, "payments-overall", composite.DisplayName)
	assert.True(t, composite.Composite)
	assert.Equal(t, []aggregates.Identity{
		{Name: "api-latency", Project: "payments"},
		{Name: "worker-latency", Project: "payments"},
	}, composite.Components)

	_, err = catalog.DecodeListing([]byte("not json"))
	assert.ErrorContains(t, err, "fail to decode SLO listing")
}

const yamlListing = `- apiVersion: n9/v1alpha
  kind: SLO
  metadata:
    name: api-latency
    project: payments
  spec:
    service: api
    objectives:
      - name: good
- apiVersion: n9/v1alpha
  kind: SLO
  metadata:
    name: checkout
    project: shop
  spec:
    service: front
    objectives:
      - name: good
`

const yamlStream = `apiVersion: n9/v1alpha
kind: SLO
metadata:
  name: api-latency
  project: payments
spec:
  service: api
---
apiVersion: n9/v1alpha
kind: SLO
metadata:
  name: checkout
  project: shop
spec:
  service: front
`

func TestDecodeListingYAML(t *testing.T) {
	listing, err := catalog.DecodeListingYAML([]byte(yamlListing))
	assert.NoError(t, err)
	assert.Len(t, listing, 2)
	assert.Equal(t, "api-latency", listing[0].Identity.Name)
	assert.Equal(t, "shop", listing[1].Identity.Project)

	listing, err = catalog.DecodeListingYAML([]byte(yamlStream))
	assert.NoError(t, err)
	assert.Len(t, listing, 2)
	assert.Equal(t, "api", listing[0].Identity.Service)
	assert.Equal(t, "checkout", listing[1].Identity.Name)
}
