package adapter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/relationship"
)

// TechnologyEntities maps Navigate technology records to unified entities.
func TechnologyEntities(techs []dataset.Technology, ingestedAt time.Time) []entity.Entity {
	out := make([]entity.Entity, len(techs))
	for i, t := range techs {
		out[i] = entity.Entity{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Type:        entity.Technology,
			Domain:      entity.Navigate,
			Metadata: entity.Metadata{
				Sector: t.Sector,
				TRL:    t.TRL,
				Tags:   t.Tags,
				Custom: t.Custom,
			},
			Provenance: datasetProvenance("navigate", t.ID, ingestedAt),
		}
	}
	return out
}

// TechnologyRelationships emits explicit addresses edges from each technology
// to the challenges it targets.
func TechnologyRelationships(techs []dataset.Technology, types TypeIndex) []relationship.Relationship {
	var out []relationship.Relationship
	for _, t := range techs {
		for _, cid := range t.ChallengeIDs {
			out = append(out, relationship.Relationship{
				ID:         fmt.Sprintf("addr:%s:%s", t.ID, cid),
				Source:     t.ID,
				Target:     cid,
				SourceType: entity.Technology,
				TargetType: types[cid],
				Kind:       relationship.Addresses,
				Strength:   1,
				Derivation: relationship.Explicit,
			})
		}
	}
	return out
}
