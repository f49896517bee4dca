package externalapi

import "math/big"

// VirtualInfo represents a point-in-time snapshot of the node's virtual state.
// A VirtualInfo is immutable once returned; concurrent readers observe either
// the snapshot taken before a virtual update or the one taken after, never a
// partially applied update.
type VirtualInfo struct {
	ParentHashes   []*DomainHash
	SelectedParent *DomainHash
	BlueScore      uint64
	BlueWork       *big.Int
	PastMedianTime int64

	// UTXOCommitment is the muhash multiset hash of the virtual UTXO set
	UTXOCommitment *DomainHash
}

// SelectedChainPath is a path the of the selected chains between two blocks.
type SelectedChainPath struct {
	Added   []*DomainHash
	Removed []*DomainHash
}

// PruningPointInfo is the hash and blue score below which DAG data
// is eligible for removal. It only ever moves forward.
type PruningPointInfo struct {
	PruningPoint *DomainHash
	BlueScore    uint64
}

// BlockProcessResult is the final outcome of a single block submission
type BlockProcessResult struct {
	Hash   *DomainHash
	Status BlockStatus
	Err    error
}
