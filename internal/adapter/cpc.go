package adapter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/relationship"
)

// ProjectEntities maps CPC project records to unified entities.
func ProjectEntities(projects []dataset.Project, ingestedAt time.Time) []entity.Entity {
	out := make([]entity.Entity, len(projects))
	for i, p := range projects {
		out[i] = entity.Entity{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Type:        entity.Project,
			Domain:      entity.CPCInternal,
			Metadata: entity.Metadata{
				Stage:         p.Stage,
				FundingAmount: p.FundingAmount,
				Custom:        p.Custom,
			},
			Provenance: datasetProvenance("cpc-internal", p.ID, ingestedAt),
		}
	}
	return out
}

// StakeholderEntities maps CPC stakeholder records to unified entities.
func StakeholderEntities(stakeholders []dataset.Stakeholder, ingestedAt time.Time) []entity.Entity {
	out := make([]entity.Entity, len(stakeholders))
	for i, s := range stakeholders {
		out[i] = entity.Entity{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Type:        entity.Stakeholder,
			Domain:      entity.CPCInternal,
			Metadata: entity.Metadata{
				Sector:       s.Sector,
				Organization: s.Organization,
				Custom:       s.Custom,
			},
			Provenance: datasetProvenance("cpc-internal", s.ID, ingestedAt),
		}
	}
	return out
}

// ProjectRelationships emits explicit funds edges to technologies and
// collaborates_with edges to stakeholders.
func ProjectRelationships(projects []dataset.Project, types TypeIndex) []relationship.Relationship {
	var out []relationship.Relationship
	for _, p := range projects {
		for _, tid := range p.TechnologyIDs {
			out = append(out, relationship.Relationship{
				ID:         fmt.Sprintf("funds:%s:%s", p.ID, tid),
				Source:     p.ID,
				Target:     tid,
				SourceType: entity.Project,
				TargetType: types[tid],
				Kind:       relationship.Funds,
				Strength:   1,
				Derivation: relationship.Explicit,
			})
		}
		for _, sid := range p.StakeholderIDs {
			out = append(out, relationship.Relationship{
				ID:         fmt.Sprintf("collab:%s:%s", p.ID, sid),
				Source:     p.ID,
				Target:     sid,
				SourceType: entity.Project,
				TargetType: types[sid],
				Kind:       relationship.CollaboratesWith,
				Strength:   1,
				Derivation: relationship.Explicit,
			})
		}
	}
	return out
}
