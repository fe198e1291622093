package catalog

import (
	"github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
)

// Catalog is an in-memory index of every SLO visible to the session. It is
// built once from the remote listing and never mutated afterwards, so any
// number of readers can use it concurrently. All lookups preserve the
// listing order.
type Catalog struct {
	slos       []aggregates.SLO
	byIdentity map[string]int
}

// Build indexes a decoded listing. Duplicate (project, name) pairs keep the
// first entry, matching the listing order shown to the user.
func Build(listing []aggregates.SLO) *Catalog {
	c := &Catalog{
		slos:       make([]aggregates.SLO, 0, len(listing)),
		byIdentity: make(map[string]int, len(listing)),
	}
	for i := range listing {
		slo := listing[i]
		key := slo.Identity.Key()
		if _, ok := c.byIdentity[key]; ok {
			continue
		}
		c.byIdentity[key] = len(c.slos)
		c.slos = append(c.slos, slo)
	}
	return c
}

func (c *Catalog) Size() int {
	return len(c.slos)
}

// All returns every SLO in listing order.
func (c *Catalog) All() []aggregates.SLO {
	result := make([]aggregates.SLO, len(c.slos))
	copy(result, c.slos)
	return result
}

// ByProject returns every SLO belonging to the project, in listing order.
// An empty result is not an error: the project may simply have no SLO.
func (c *Catalog) ByProject(project string) []aggregates.SLO {
	result := []aggregates.SLO{}
	for i := range c.slos {
		if c.slos[i].Identity.Project == project {
			result = append(result, c.slos[i])
		}
	}
	return result
}

// ByService returns every SLO attached to the service within the project,
// in listing order.
func (c *Catalog) ByService(project string, service string) []aggregates.SLO {
	result := []aggregates.SLO{}
	for i := range c.slos {
		identity := c.slos[i].Identity
		if identity.Project == project && identity.Service == service {
			result = append(result, c.slos[i])
		}
	}
	return result
}

// ByIdentity looks up one SLO by its (project, name) pair. The service part
// of the identity is ignored: component references only carry project and
// name.
func (c *Catalog) ByIdentity(identity aggregates.Identity) (aggregates.SLO, bool) {
	idx, ok := c.byIdentity[identity.Key()]
	if !ok {
		return aggregates.SLO{}, false
	}
	return c.slos[idx], true
}

// Composites returns every composite SLO, in listing order.
func (c *Catalog) Composites() []aggregates.SLO {
	result := []aggregates.SLO{}
	for i := range c.slos {
		if c.slos[i].Composite {
			result = append(result, c.slos[i])
		}
	}
	return result
}

// Projects returns the distinct project names in first-seen order.
func (c *Catalog) Projects() []string {
	seen := make(map[string]bool)
	result := []string{}
	for i := range c.slos {
		project := c.slos[i].Identity.Project
		if !seen[project] {
			seen[project] = true
			result = append(result, project)
		}
	}
	return result
}

// Services returns the distinct service names of a project in first-seen
// order.
func (c *Catalog) Services(project string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for i := range c.slos {
		identity := c.slos[i].Identity
		if identity.Project != project || identity.Service == "" {
			continue
		}
		if !seen[identity.Service] {
			seen[identity.Service] = true
			result = append(result, identity.Service)
		}
	}
	return result
}
