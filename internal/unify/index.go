package unify

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/unidex/internal/adapter"
	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/relationship"
)

// Diagnostics collects non-fatal data-integrity findings from a build.
// Dangling edges are tolerated at runtime but should fail a data-quality
// check in CI.
type Diagnostics struct {
	// UnresolvedRelationships lists edge ids whose source or target is not
	// present in the unified index.
	UnresolvedRelationships []string
}

// Index is the unified entity/relationship graph: all domain datasets
// concatenated in a fixed adapter order with O(1) id lookup.
//
// Adapter order (documented, reproducible run-to-run): atlas challenges,
// navigate technologies, cpc projects, cpc stakeholders.
type Index struct {
	entities      []entity.Entity
	byID          map[string]*entity.Entity
	relationships []relationship.Relationship
	diags         Diagnostics
}

// Build runs all adapters over the dataset and assembles the unified index.
// A duplicate entity id across domains is a data-integrity error and fails
// the build; dangling relationship endpoints are retained and reported via
// Diagnostics.
func Build(ds *dataset.Dataset, ingestedAt time.Time, simThreshold float64) (*Index, error) {
	challenges := adapter.ChallengeEntities(ds.Challenges, ingestedAt)
	technologies := adapter.TechnologyEntities(ds.Technologies, ingestedAt)
	projects := adapter.ProjectEntities(ds.Projects, ingestedAt)
	stakeholders := adapter.StakeholderEntities(ds.Stakeholders, ingestedAt)

	types := adapter.BuildTypeIndex(challenges, technologies, projects, stakeholders)

	idx := &Index{byID: make(map[string]*entity.Entity)}

	for _, group := range [][]entity.Entity{challenges, technologies, projects, stakeholders} {
		for _, e := range group {
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("build index: %w", err)
			}
			if _, exists := idx.byID[e.ID]; exists {
				return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEntity, e.ID)
			}
			idx.entities = append(idx.entities, e)
		}
	}
	for i := range idx.entities {
		idx.byID[idx.entities[i].ID] = &idx.entities[i]
	}

	idx.relationships = append(idx.relationships, adapter.ChallengeRelationships(ds.Challenges, types)...)
	idx.relationships = append(idx.relationships, adapter.TechnologyRelationships(ds.Technologies, types)...)
	idx.relationships = append(idx.relationships, adapter.ProjectRelationships(ds.Projects, types)...)
	idx.relationships = append(idx.relationships, adapter.SimilarityEdges(ds.Challenges, simThreshold)...)

	for i := range idx.relationships {
		r := &idx.relationships[i]
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}
		_, srcOK := idx.byID[r.Source]
		_, tgtOK := idx.byID[r.Target]
		if !srcOK || !tgtOK {
			idx.diags.UnresolvedRelationships = append(idx.diags.UnresolvedRelationships, r.ID)
		}
	}

	return idx, nil
}

// Entity returns the entity for id, or nil when absent. Never panics.
func (x *Index) Entity(id string) *entity.Entity {
	return x.byID[id]
}

// Entities returns all entities in concatenation order.
func (x *Index) Entities() []entity.Entity {
	return x.entities
}

// ByDomain returns entities from one dataset domain, in concatenation order.
func (x *Index) ByDomain(d entity.Domain) []entity.Entity {
	var out []entity.Entity
	for _, e := range x.entities {
		if e.Domain == d {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns entities of one type, in concatenation order.
func (x *Index) ByType(t entity.Type) []entity.Entity {
	var out []entity.Entity
	for _, e := range x.entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Relationships returns all edges in adapter order.
func (x *Index) Relationships() []relationship.Relationship {
	return x.relationships
}

// RelationshipsFor returns all edges touching the entity as source or
// target, in relationship-array order.
func (x *Index) RelationshipsFor(id string) []relationship.Relationship {
	var out []relationship.Relationship
	for _, r := range x.relationships {
		if r.Touches(id) {
			out = append(out, r)
		}
	}
	return out
}

// Diagnostics returns the non-fatal integrity findings from the build.
func (x *Index) Diagnostics() Diagnostics {
	return x.diags
}
