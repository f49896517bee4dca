package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// BlockRelations represents a block's parent/child relations within a single
// DAG level. Children lists grow monotonically until the block is pruned.
type BlockRelations struct {
	Parents  []*externalapi.DomainHash
	Children []*externalapi.DomainHash
}

// Clone returns a clone of BlockRelations
func (br *BlockRelations) Clone() *BlockRelations {
	return &BlockRelations{
		Parents:  externalapi.CloneHashes(br.Parents),
		Children: externalapi.CloneHashes(br.Children),
	}
}

// Equal returns whether br equals to other
func (br *BlockRelations) Equal(other *BlockRelations) bool {
	if br == nil || other == nil {
		return br == other
	}

	return externalapi.HashesEqual(br.Parents, other.Parents) &&
		externalapi.HashesEqual(br.Children, other.Children)
}
