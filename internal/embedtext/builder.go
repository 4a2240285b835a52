// Package embedtext builds the deterministic text sent to the embedding
// model for an entity. The output is a pure function of the entity's field
// values: identical state always yields an identical string, which the
// vector store relies on for content-hash invalidation.
package embedtext

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/unidex/internal/domain/entity"
)

// MaxLength is the hard cutoff applied to the final string, matching the
// input limit of the embedding model. Truncation is byte-positional, not
// sentence-aware.
const MaxLength = 8000

// Build produces the embedding input for an entity: name first, description
// if non-empty, then one line per present metadata field, and always a
// trailing "Type:" line for downstream filtering and explainability.
func Build(e *entity.Entity) string {
	var b strings.Builder

	b.WriteString(e.Name)
	if e.Description != "" {
		b.WriteString("\n")
		b.WriteString(e.Description)
	}

	m := e.Metadata
	if m.Sector != "" {
		fmt.Fprintf(&b, "\nSector: %s", m.Sector)
	}
	if len(m.Keywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords: %s", strings.Join(m.Keywords, ", "))
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(&b, "\nTags: %s", strings.Join(m.Tags, ", "))
	}
	if m.ProblemType != "" {
		fmt.Fprintf(&b, "\nProblem type: %s", m.ProblemType)
	}
	if len(m.SecondaryTypes) > 0 {
		fmt.Fprintf(&b, "\nSecondary types: %s", strings.Join(m.SecondaryTypes, ", "))
	}
	if m.TRL > 0 {
		fmt.Fprintf(&b, "\nTRL: %d", m.TRL)
	}
	if m.FundingAmount > 0 {
		fmt.Fprintf(&b, "\nFunding: %.0f", m.FundingAmount)
	}
	if m.Stage != "" {
		fmt.Fprintf(&b, "\nStage: %s", m.Stage)
	}
	if m.Organization != "" {
		fmt.Fprintf(&b, "\nOrganization: %s", m.Organization)
	}

	fmt.Fprintf(&b, "\nType: %s", e.Type)

	text := b.String()
	if len(text) > MaxLength {
		text = text[:MaxLength]
	}
	return text
}
