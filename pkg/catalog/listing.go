package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jcoope02/annotation-scripts/pkg/catalog/aggregates"
	"gopkg.in/yaml.v3"
)

// sloDocument mirrors the subset of an SLO definition this tool needs, as
// returned by the platform listing endpoint or exported by sloctl.
type sloDocument struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind" yaml:"kind"`
	Metadata   struct {
		Name        string            `json:"name" yaml:"name"`
		DisplayName string            `json:"displayName" yaml:"displayName"`
		Project     string            `json:"project" yaml:"project"`
		Labels      map[string]string `json:"labels" yaml:"labels"`
	} `json:"metadata" yaml:"metadata"`
	Spec struct {
		Description string         `json:"description" yaml:"description"`
		Service     string         `json:"service" yaml:"service"`
		Objectives  []sloObjective `json:"objectives" yaml:"objectives"`
	} `json:"spec" yaml:"spec"`
}

type sloObjective struct {
	Name      string `json:"name" yaml:"name"`
	Composite *struct {
		Components struct {
			Objectives []struct {
				Project string `json:"project" yaml:"project"`
				SLO     string `json:"slo" yaml:"slo"`
			} `json:"objectives" yaml:"objectives"`
		} `json:"components" yaml:"components"`
	} `json:"composite,omitempty" yaml:"composite,omitempty"`
}

func (d sloDocument) toSLO() aggregates.SLO {
	slo := aggregates.SLO{
		Identity: aggregates.Identity{
			Name:    d.Metadata.Name,
			Project: d.Metadata.Project,
			Service: d.Spec.Service,
		},
		DisplayName: d.Metadata.DisplayName,
		Labels:      d.Metadata.Labels,
	}
	if slo.DisplayName == "" {
		slo.DisplayName = d.Metadata.Name
	}
	if d.Spec.Description != "" {
		description := d.Spec.Description
		slo.Description = &description
	}
	// An SLO is composite when one of its objectives aggregates other SLOs.
	// Component references keep their declared order.
	for _, objective := range d.Spec.Objectives {
		if objective.Composite == nil {
			continue
		}
		slo.Composite = true
		for _, component := range objective.Composite.Components.Objectives {
			slo.Components = append(slo.Components, aggregates.Identity{
				Name:    component.SLO,
				Project: component.Project,
			})
		}
	}
	return slo
}

// DecodeListing decodes the JSON array returned by the SLO listing endpoint.
func DecodeListing(data []byte) ([]aggregates.SLO, error) {
	var documents []sloDocument
	if err := json.Unmarshal(data, &documents); err != nil {
		return nil, fmt.Errorf("fail to decode SLO listing: %w", err)
	}
	result := make([]aggregates.SLO, 0, len(documents))
	for _, document := range documents {
		result = append(result, document.toSLO())
	}
	return result, nil
}

// DecodeListingYAML decodes a sloctl YAML export. Both a document holding a
// sequence of SLOs and a multi-document stream are accepted.
func DecodeListingYAML(data []byte) ([]aggregates.SLO, error) {
	var documents []sloDocument
	if err := yaml.Unmarshal(data, &documents); err == nil {
		result := make([]aggregates.SLO, 0, len(documents))
		for _, document := range documents {
			result = append(result, document.toSLO())
		}
		return result, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	result := []aggregates.SLO{}
	for {
		var document sloDocument
		err := decoder.Decode(&document)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fail to decode SLO listing: %w", err)
		}
		result = append(result, document.toSLO())
	}
	return result, nil
}
