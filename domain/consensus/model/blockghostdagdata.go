package model

import (
	"math/big"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// KType defines the size of GHOSTDAG consensus algorithm K parameter.
type KType byte

// BlockGHOSTDAGData represents GHOSTDAG data for some block. It is computed
// once when the block's header is accepted and never mutated afterwards.
type BlockGHOSTDAGData struct {
	blueScore          uint64
	blueWork           *big.Int
	selectedParent     *externalapi.DomainHash
	mergeSetBlues      []*externalapi.DomainHash
	mergeSetReds       []*externalapi.DomainHash
	bluesAnticoneSizes map[externalapi.DomainHash]KType
}

// NewBlockGHOSTDAGData creates a new instance of BlockGHOSTDAGData
func NewBlockGHOSTDAGData(
	blueScore uint64,
	blueWork *big.Int,
	selectedParent *externalapi.DomainHash,
	mergeSetBlues []*externalapi.DomainHash,
	mergeSetReds []*externalapi.DomainHash,
	bluesAnticoneSizes map[externalapi.DomainHash]KType) *BlockGHOSTDAGData {

	return &BlockGHOSTDAGData{
		blueScore:          blueScore,
		blueWork:           blueWork,
		selectedParent:     selectedParent,
		mergeSetBlues:      mergeSetBlues,
		mergeSetReds:       mergeSetReds,
		bluesAnticoneSizes: bluesAnticoneSizes,
	}
}

// BlueScore returns the count of blue ancestors of this block (including itself)
func (bgd *BlockGHOSTDAGData) BlueScore() uint64 {
	return bgd.blueScore
}

// BlueWork returns the cumulative work along the blue chain of this block.
// BlueWork is the primary total-order key of the DAG.
func (bgd *BlockGHOSTDAGData) BlueWork() *big.Int {
	return bgd.blueWork
}

// SelectedParent returns the parent maximizing blue work (hash as tie-break).
// It is nil for the genesis block.
func (bgd *BlockGHOSTDAGData) SelectedParent() *externalapi.DomainHash {
	return bgd.selectedParent
}

// MergeSetBlues returns the ordered blue members of this block's mergeset.
// The first member is always the selected parent.
func (bgd *BlockGHOSTDAGData) MergeSetBlues() []*externalapi.DomainHash {
	return bgd.mergeSetBlues
}

// MergeSetReds returns the ordered red members of this block's mergeset
func (bgd *BlockGHOSTDAGData) MergeSetReds() []*externalapi.DomainHash {
	return bgd.mergeSetReds
}

// BluesAnticoneSizes returns a map between the blocks in this block's blue set
// and the size of their anticone within the blue set
func (bgd *BlockGHOSTDAGData) BluesAnticoneSizes() map[externalapi.DomainHash]KType {
	return bgd.bluesAnticoneSizes
}

// MergeSet returns the full mergeset: blues followed by reds
func (bgd *BlockGHOSTDAGData) MergeSet() []*externalapi.DomainHash {
	mergeSet := make([]*externalapi.DomainHash, len(bgd.mergeSetBlues)+len(bgd.mergeSetReds))
	copy(mergeSet, bgd.mergeSetBlues)
	copy(mergeSet[len(bgd.mergeSetBlues):], bgd.mergeSetReds)

	return mergeSet
}
