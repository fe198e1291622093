package aggregates

import "fmt"

// Identity identifies one SLO. The uniqueness key within an organization
// is the (project, name) pair; the service is informational.
type Identity struct {
	Name    string
	Project string
	Service string
}

func (i Identity) Key() string {
	return i.Project + "/" + i.Name
}

func (i Identity) String() string {
	if i.Service != "" {
		return fmt.Sprintf("%s/%s (service %s)", i.Project, i.Name, i.Service)
	}
	return i.Project + "/" + i.Name
}

// SLO is one catalog entry, built from the remote listing and read-only
// afterwards. Components is empty unless the SLO is composite; it keeps the
// component references in the order the definition declares them.
type SLO struct {
	Identity    Identity
	DisplayName string
	Description *string
	Labels      map[string]string
	Composite   bool
	Components  []Identity
}
