package adapter

import "github.com/kailas-cloud/unidex/internal/domain/entity"

// TypeIndex resolves an entity id to its type so relationship adapters can
// denormalize endpoint types without a join. A missing id yields the zero
// Type; the unification layer flags such edges as unresolved.
type TypeIndex map[string]entity.Type

// BuildTypeIndex builds a TypeIndex over all adapter entity outputs.
func BuildTypeIndex(groups ...[]entity.Entity) TypeIndex {
	idx := make(TypeIndex)
	for _, group := range groups {
		for _, e := range group {
			idx[e.ID] = e.Type
		}
	}
	return idx
}
