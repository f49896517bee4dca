package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// ConsensusStateManager manages the node's consensus state: the virtual
// block, its parents, its selected chain and its UTXO set
type ConsensusStateManager interface {
	// AddBlockToVirtual makes the given block a candidate virtual parent,
	// recomputes the virtual state, and resolves the statuses of any blocks
	// that joined the selected chain. The caller must serialize calls; the
	// virtual state is single-writer.
	AddBlockToVirtual(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.SelectedChainPath, bool, error)

	VirtualSelectedParent(stagingArea *StagingArea) (*externalapi.DomainHash, error)
}
