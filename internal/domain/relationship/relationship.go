package relationship

import (
	"fmt"

	"github.com/kailas-cloud/unidex/internal/domain/entity"
)

// Kind is the relationship type. The vocabulary is open but conventionally
// reused across adapters.
type Kind string

// Common relationship kinds.
const (
	Funds              Kind = "funds"
	CollaboratesWith   Kind = "collaborates_with"
	SimilarTo          Kind = "similar_to"
	Addresses          Kind = "addresses"
	RequiresCapability Kind = "requires_capability"
	AtStage            Kind = "at_stage"
	PartOf             Kind = "part_of"
)

// Derivation says whether an edge came from source data or was computed.
type Derivation string

// Derivation constants.
const (
	// Explicit edges come from source data.
	Explicit Derivation = "explicit"
	// Computed edges are produced by a deterministic similarity function.
	// Strength must equal the similarity score at generation time.
	Computed Derivation = "computed"
)

// Relationship is a typed, directed, weighted edge between two entities.
// SourceType and TargetType are denormalized copies of the endpoints' entity
// types so filters never need an index join.
type Relationship struct {
	ID         string      `json:"id"`
	Source     string      `json:"source"`
	Target     string      `json:"target"`
	SourceType entity.Type `json:"sourceType"`
	TargetType entity.Type `json:"targetType"`
	Kind       Kind        `json:"type"`
	Strength   float64     `json:"strength"`
	Derivation Derivation  `json:"derivation"`
}

// Validate checks the structural invariants of an edge.
func (r *Relationship) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("relationship id is required")
	}
	if r.Source == "" || r.Target == "" {
		return fmt.Errorf("relationship %s: source and target are required", r.ID)
	}
	if r.Strength < 0 || r.Strength > 1 {
		return fmt.Errorf("relationship %s: strength must be between 0 and 1, got %v", r.ID, r.Strength)
	}
	if r.Derivation != Explicit && r.Derivation != Computed {
		return fmt.Errorf("relationship %s: invalid derivation %q", r.ID, r.Derivation)
	}
	return nil
}

// Touches reports whether the edge has the given entity as source or target.
func (r *Relationship) Touches(id string) bool {
	return r.Source == id || r.Target == id
}
