package expand

import (
	"fmt"
	"strings"

	"github.com/jcoope02/annotation-scripts/pkg/catalog"
	"github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	er "github.com/mcorbin/corbierror"
)

// Scope is the user's target selection: a whole project, a whole service, a
// hand-picked set of SLOs, or a composite SLO with its components.
type Scope interface {
	scope()
}

type ProjectScope struct {
	Name string
}

type ServiceScope struct {
	Project string
	Name    string
}

type IdentitySet struct {
	Identities []aggregates.Identity
}

type CompositeScope struct {
	Identity aggregates.Identity
}

func (ProjectScope) scope()   {}
func (ServiceScope) scope()   {}
func (IdentitySet) scope()    {}
func (CompositeScope) scope() {}

// ExpansionError is returned when a scope cannot be resolved to a valid SLO
// set. Nothing gets submitted when it is returned.
type ExpansionError struct {
	Missing []aggregates.Identity
	Message string
}

func (e *ExpansionError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Missing))
	for _, identity := range e.Missing {
		names = append(names, identity.Key())
	}
	return fmt.Sprintf("unknown SLO: %s", strings.Join(names, ", "))
}

// Expansion is the resolved target list. Records holds at most one entry per
// (project, name) pair, in resolution order. Unresolved lists composite
// component references missing from the catalog; they are warnings, not
// failures.
type Expansion struct {
	Records    []aggregates.SLO
	Unresolved []aggregates.Identity
}

// Resolution is the outcome of a depth-1 composite walk: resolved component
// records and unresolved references, both in declared order.
type Resolution struct {
	Resolved   []aggregates.SLO
	Unresolved []aggregates.Identity
}

// ResolveComponents looks up the full record of every component reference
// declared by a composite SLO. A missing reference lands in Unresolved
// instead of aborting the resolution. Components that are themselves
// composite are returned as-is: nesting is not expanded.
func ResolveComponents(record aggregates.SLO, cat *catalog.Catalog) (Resolution, error) {
	if !record.Composite {
		return Resolution{}, er.Newf("SLO %s is not a composite SLO", er.BadRequest, true, record.Identity.Key())
	}
	resolution := Resolution{}
	for _, ref := range record.Components {
		component, ok := cat.ByIdentity(ref)
		if !ok {
			resolution.Unresolved = append(resolution.Unresolved, ref)
			continue
		}
		resolution.Resolved = append(resolution.Resolved, component)
	}
	return resolution, nil
}

// Expand maps a scope onto a concrete, ordered, deduplicated SLO list using
// the catalog. Empty project or service scopes are valid empty batches; an
// explicitly selected SLO that does not exist fails the whole expansion.
func Expand(scope Scope, cat *catalog.Catalog) (Expansion, error) {
	switch s := scope.(type) {
	case ProjectScope:
		return Expansion{Records: dedupe(cat.ByProject(s.Name))}, nil
	case ServiceScope:
		return Expansion{Records: dedupe(cat.ByService(s.Project, s.Name))}, nil
	case IdentitySet:
		return expandIdentitySet(s, cat)
	case CompositeScope:
		return expandComposite(s, cat)
	default:
		return Expansion{}, er.Newf("unsupported scope type %T", er.BadRequest, false, scope)
	}
}

func expandIdentitySet(set IdentitySet, cat *catalog.Catalog) (Expansion, error) {
	records := make([]aggregates.SLO, 0, len(set.Identities))
	missing := []aggregates.Identity{}
	for _, identity := range set.Identities {
		record, ok := cat.ByIdentity(identity)
		if !ok {
			missing = append(missing, identity)
			continue
		}
		records = append(records, record)
	}
	if len(missing) > 0 {
		return Expansion{}, &ExpansionError{Missing: missing}
	}
	return Expansion{Records: dedupe(records)}, nil
}

func expandComposite(scope CompositeScope, cat *catalog.Catalog) (Expansion, error) {
	record, ok := cat.ByIdentity(scope.Identity)
	if !ok {
		return Expansion{}, &ExpansionError{Missing: []aggregates.Identity{scope.Identity}}
	}
	if !record.Composite {
		return Expansion{}, &ExpansionError{
			Message: fmt.Sprintf("SLO %s is not a composite SLO", scope.Identity.Key()),
		}
	}
	resolution, err := ResolveComponents(record, cat)
	if err != nil {
		return Expansion{}, err
	}
	records := append([]aggregates.SLO{record}, resolution.Resolved...)
	return Expansion{
		Records:    dedupe(records),
		Unresolved: resolution.Unresolved,
	}, nil
}

// dedupe keeps the first occurrence of every (project, name) pair, order
// preserved, so each SLO gets at most one annotation per batch.
func dedupe(records []aggregates.SLO) []aggregates.SLO {
	seen := make(map[string]bool, len(records))
	result := make([]aggregates.SLO, 0, len(records))
	for i := range records {
		key := records[i].Identity.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, records[i])
	}
	return result
}
