package consensusstatemanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// consensusStateManager manages the node's consensus state: the virtual
// block, its parents, its selected chain and its UTXO set
type consensusStateManager struct {
	maxBlockParents   int
	mergeSetSizeLimit uint64
	genesisHash       *externalapi.DomainHash

	databaseContext model.DBReader

	ghostdagManager     model.GHOSTDAGManager
	dagTopologyManager  model.DAGTopologyManager
	dagTraversalManager model.DAGTraversalManager

	blockStatusStore    model.BlockStatusStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	consensusStateStore model.ConsensusStateStore
	utxoDiffStore       model.UTXODiffStore
	blockStore          model.BlockStore
}

// New instantiates a new ConsensusStateManager
func New(
	maxBlockParents int,
	mergeSetSizeLimit uint64,
	genesisHash *externalapi.DomainHash,

	databaseContext model.DBReader,

	ghostdagManager model.GHOSTDAGManager,
	dagTopologyManager model.DAGTopologyManager,
	dagTraversalManager model.DAGTraversalManager,

	blockStatusStore model.BlockStatusStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	consensusStateStore model.ConsensusStateStore,
	utxoDiffStore model.UTXODiffStore,
	blockStore model.BlockStore) model.ConsensusStateManager {

	return &consensusStateManager{
		maxBlockParents:   maxBlockParents,
		mergeSetSizeLimit: mergeSetSizeLimit,
		genesisHash:       genesisHash,

		databaseContext: databaseContext,

		ghostdagManager:     ghostdagManager,
		dagTopologyManager:  dagTopologyManager,
		dagTraversalManager: dagTraversalManager,

		blockStatusStore:    blockStatusStore,
		ghostdagDataStore:   ghostdagDataStore,
		consensusStateStore: consensusStateStore,
		utxoDiffStore:       utxoDiffStore,
		blockStore:          blockStore,
	}
}

// VirtualSelectedParent returns the selected parent of the current virtual block
func (csm *consensusStateManager) VirtualSelectedParent(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	virtualGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	return virtualGHOSTDAGData.SelectedParent(), nil
}
