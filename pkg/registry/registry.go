// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"recruitment-workers/internal/scoring/rubric"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrRegistryNotFound = errors.New("RUBRIC_NOT_FOUND")
	ErrRegistryInvalid  = errors.New("RUBRIC_INVALID")
)

// PillarDefinition is the on-disk shape of one scoring pillar.
type PillarDefinition struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Weight   float64               `json:"weight"`
	Criteria []CriterionDefinition `json:"criteria"`
}

// CriterionDefinition is the on-disk shape of one interview question.
type CriterionDefinition struct {
	ID       string            `json:"id"`
	Weight   float64           `json:"weight"`
	Critical bool              `json:"critical"`
	Question string            `json:"question"`
	Guidance map[string]string `json:"guidance,omitempty"`
}

// RubricRegistry is the versioned rubric definition file. Scoring behavior is
// driven entirely by this data; changing the questionnaire never requires a
// code change.
type RubricRegistry struct {
	Version     string             `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Pillars     []PillarDefinition `json:"pillars"`
}

const registrySchema = `{
	"type": "object",
	"required": ["version", "pillars"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"lastUpdated": {"type": "string"},
		"pillars": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "name", "weight", "criteria"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"weight": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
					"criteria": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["id", "weight", "question"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"weight": {"type": "number", "exclusiveMinimum": 0},
								"critical": {"type": "boolean"},
								"question": {"type": "string", "minLength": 1}
							}
						}
					}
				}
			}
		}
	}
}`

// Load reads and validates the rubric registry file.
func Load(path string) (*RubricRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRegistryNotFound, path)
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryInvalid, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: schema violations: %v", ErrRegistryInvalid, errs)
	}

	var reg RubricRegistry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryInvalid, err)
	}

	if err := reg.validateWeights(); err != nil {
		return nil, err
	}

	return &reg, nil
}

// validateWeights checks the cross-field constraint the schema cannot express:
// pillar weights must sum to 1.
func (r *RubricRegistry) validateWeights() error {
	var sum float64
	seen := make(map[string]bool)
	for _, p := range r.Pillars {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate pillar id %q", ErrRegistryInvalid, p.ID)
		}
		seen[p.ID] = true
		sum += p.Weight
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("%w: pillar weights sum to %.3f, want 1.0", ErrRegistryInvalid, sum)
	}
	return nil
}

// ToPillars converts the file definitions into the engine's types.
func (r *RubricRegistry) ToPillars() []rubric.Pillar {
	pillars := make([]rubric.Pillar, 0, len(r.Pillars))
	for _, p := range r.Pillars {
		pillar := rubric.Pillar{
			ID:     p.ID,
			Name:   p.Name,
			Weight: p.Weight,
		}
		for _, c := range p.Criteria {
			pillar.Criteria = append(pillar.Criteria, rubric.Criterion{
				ID:       c.ID,
				PillarID: p.ID,
				Weight:   c.Weight,
				Critical: c.Critical,
				Question: c.Question,
				Guidance: c.Guidance,
			})
		}
		pillars = append(pillars, pillar)
	}
	return pillars
}
