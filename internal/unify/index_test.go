package unify

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/unidex/internal/adapter"
	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
)

var ingested = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func fixtureDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Challenges: []dataset.Challenge{
			{
				ID: "atlas-ch-001", Title: "Hydrogen Aircraft Technology",
				Summary: "Zero-emission aviation", ProblemType: "decarbonization",
				Keywords: []string{"hydrogen", "aviation"}, StakeholderIDs: []string{"cpc-s-001"},
			},
			{
				ID: "atlas-ch-002", Title: "Sustainable Aviation Fuel",
				Summary: "Drop-in fuels", ProblemType: "decarbonization",
				Keywords: []string{"aviation", "fuel"},
			},
		},
		Technologies: []dataset.Technology{
			{ID: "nav-t-001", Name: "PEM Fuel Cell", Description: "Membrane stack", TRL: 7, ChallengeIDs: []string{"atlas-ch-001"}},
		},
		Projects: []dataset.Project{
			{ID: "cpc-p-001", Name: "H2 Pilot", Description: "Pilot line", Stage: "pilot", TechnologyIDs: []string{"nav-t-001"}},
		},
		Stakeholders: []dataset.Stakeholder{
			{ID: "cpc-s-001", Name: "Aero Corp", Description: "OEM"},
		},
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	idx, err := Build(fixtureDataset(), ingested, adapter.SimilarityThreshold)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Every entity in the index resolves via Entity().
	for _, e := range idx.Entities() {
		got := idx.Entity(e.ID)
		if got == nil || got.ID != e.ID {
			t.Errorf("entity %s not resolvable via Entity()", e.ID)
		}
	}

	// Missing ids return nil, never panic.
	if idx.Entity("nonexistent") != nil {
		t.Error("Entity() for missing id must return nil")
	}
}

func TestBuild_ConcatenationOrder(t *testing.T) {
	idx, err := Build(fixtureDataset(), ingested, adapter.SimilarityThreshold)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"atlas-ch-001", "atlas-ch-002", "nav-t-001", "cpc-p-001", "cpc-s-001"}
	got := idx.Entities()
	if len(got) != len(want) {
		t.Fatalf("entity count = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("entities[%d] = %s, want %s (adapters run in fixed order)", i, got[i].ID, id)
		}
	}
}

func TestBuild_DuplicateIDFails(t *testing.T) {
	ds := fixtureDataset()
	ds.Technologies = append(ds.Technologies, dataset.Technology{
		ID: "atlas-ch-001", Name: "Clashing", Description: "same id as a challenge", TRL: 3,
	})

	_, err := Build(ds, ingested, adapter.SimilarityThreshold)
	if !errors.Is(err, domain.ErrDuplicateEntity) {
		t.Errorf("err = %v, want ErrDuplicateEntity", err)
	}
}

func TestBuild_DanglingEdgeFlagged(t *testing.T) {
	ds := fixtureDataset()
	ds.Challenges[0].StakeholderIDs = append(ds.Challenges[0].StakeholderIDs, "ghost-1")

	idx, err := Build(ds, ingested, adapter.SimilarityThreshold)
	if err != nil {
		t.Fatalf("dangling edges must not fail the build: %v", err)
	}

	diags := idx.Diagnostics()
	if len(diags.UnresolvedRelationships) != 1 {
		t.Fatalf("unresolved = %v, want exactly the ghost edge", diags.UnresolvedRelationships)
	}
	if diags.UnresolvedRelationships[0] != "collab:atlas-ch-001:ghost-1" {
		t.Errorf("unresolved edge id = %s", diags.UnresolvedRelationships[0])
	}
}

func TestByDomainAndByType(t *testing.T) {
	idx, err := Build(fixtureDataset(), ingested, adapter.SimilarityThreshold)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	atlas := idx.ByDomain(entity.Atlas)
	if len(atlas) != 2 {
		t.Errorf("atlas entities = %d, want 2", len(atlas))
	}
	if len(idx.ByType(entity.Technology)) != 1 {
		t.Error("expected 1 technology")
	}
	if idx.ByType(entity.Milestone) != nil {
		t.Error("expected no milestones")
	}
}

func TestRelationshipsFor(t *testing.T) {
	idx, err := Build(fixtureDataset(), ingested, adapter.SimilarityThreshold)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// atlas-ch-001: collab to cpc-s-001, addressed by nav-t-001, plus the
	// computed similar_to edge with atlas-ch-002 (shared keyword + same type).
	rels := idx.RelationshipsFor("atlas-ch-001")
	if len(rels) != 3 {
		t.Fatalf("edges for atlas-ch-001 = %d, want 3", len(rels))
	}

	for _, r := range rels {
		if !r.Touches("atlas-ch-001") {
			t.Errorf("edge %s does not touch the entity", r.ID)
		}
	}
}
