package adapter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/unidex/internal/dataset"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/relationship"
)

// Similarity scoring weights. The score is
//
//	min(1, jaccard(keywords) + 0.3*[same primary type] + 0.2*[secondary overlap])
//
// and an edge is emitted only above SimilarityThreshold.
const (
	primaryTypeBonus    = 0.3
	secondaryTypeBonus  = 0.2
	SimilarityThreshold = 0.2
)

// ChallengeSimilarity computes the deterministic similarity score between two
// challenges. Symmetric: ChallengeSimilarity(a, b) == ChallengeSimilarity(b, a).
func ChallengeSimilarity(a, b *dataset.Challenge) float64 {
	score := jaccard(a.Keywords, b.Keywords)

	if a.ProblemType != "" && normalize(a.ProblemType) == normalize(b.ProblemType) {
		score += primaryTypeBonus
	}

	if secondaryOverlap(a, b) || secondaryOverlap(b, a) {
		score += secondaryTypeBonus
	}

	if score > 1 {
		score = 1
	}
	return score
}

// SimilarityEdges emits a computed similar_to edge for every unordered pair
// of challenges whose score exceeds threshold. Edge ids and ordering are
// reproducible: pairs are visited in input order, lower index first.
func SimilarityEdges(challenges []dataset.Challenge, threshold float64) []relationship.Relationship {
	var edges []relationship.Relationship

	for i := range challenges {
		for j := i + 1; j < len(challenges); j++ {
			score := ChallengeSimilarity(&challenges[i], &challenges[j])
			if score <= threshold {
				continue
			}
			edges = append(edges, relationship.Relationship{
				ID:         fmt.Sprintf("sim:%s:%s", challenges[i].ID, challenges[j].ID),
				Source:     challenges[i].ID,
				Target:     challenges[j].ID,
				SourceType: entity.Challenge,
				TargetType: entity.Challenge,
				Kind:       relationship.SimilarTo,
				Strength:   score,
				Derivation: relationship.Computed,
			})
		}
	}

	return edges
}

// jaccard computes |A∩B| / |A∪B| over normalized keyword sets.
// Two empty sets have similarity 0, not 1.
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// secondaryOverlap reports whether any of a's secondary types matches b's
// primary problem type.
func secondaryOverlap(a, b *dataset.Challenge) bool {
	if b.ProblemType == "" {
		return false
	}
	target := normalize(b.ProblemType)
	for _, s := range a.SecondaryTypes {
		if normalize(s) == target {
			return true
		}
	}
	return false
}

func toSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		if n := normalize(k); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
