package adapter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/relationship"
)

// ChallengeEntities maps Atlas challenge records to unified entities, 1:1
// with the input and in input order. Pure: no I/O, ingestedAt is supplied by
// the caller so repeated runs over the same data are byte-identical.
func ChallengeEntities(challenges []dataset.Challenge, ingestedAt time.Time) []entity.Entity {
	out := make([]entity.Entity, len(challenges))
	for i, c := range challenges {
		out[i] = entity.Entity{
			ID:          c.ID,
			Name:        c.Title,
			Description: c.Summary,
			Type:        entity.Challenge,
			Domain:      entity.Atlas,
			Metadata: entity.Metadata{
				Sector:         c.Sector,
				Keywords:       c.Keywords,
				ProblemType:    c.ProblemType,
				SecondaryTypes: c.SecondaryTypes,
				Custom:         c.Custom,
			},
			Provenance: datasetProvenance("atlas", c.ID, ingestedAt),
		}
	}
	return out
}

// ChallengeRelationships emits explicit collaborates_with edges from each
// challenge to its stakeholders. Endpoint types are resolved via types;
// unresolved targets keep an empty TargetType and are flagged downstream.
func ChallengeRelationships(challenges []dataset.Challenge, types TypeIndex) []relationship.Relationship {
	var out []relationship.Relationship
	for _, c := range challenges {
		for _, sid := range c.StakeholderIDs {
			out = append(out, relationship.Relationship{
				ID:         fmt.Sprintf("collab:%s:%s", c.ID, sid),
				Source:     c.ID,
				Target:     sid,
				SourceType: entity.Challenge,
				TargetType: types[sid],
				Kind:       relationship.CollaboratesWith,
				Strength:   1,
				Derivation: relationship.Explicit,
			})
		}
	}
	return out
}

// datasetProvenance builds the provenance block shared by all dataset-backed
// entities: a dataset source, unverified quality at full-load confidence, and
// a single ingestion audit event.
func datasetProvenance(source, ref string, ingestedAt time.Time) *entity.Provenance {
	return &entity.Provenance{
		Source: entity.Source{
			Type:       "dataset",
			Name:       source,
			Reference:  ref,
			IngestedAt: ingestedAt,
		},
		Quality: entity.Quality{
			Confidence:   1,
			Verification: entity.Unverified,
		},
		Audit: []entity.ChangeEvent{
			{At: ingestedAt, Actor: "loader", Description: "ingested from " + source + " dataset"},
		},
	}
}
