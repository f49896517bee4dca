package pruningmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PRNM")

// pruningManager resolves and manages the current pruning point
type pruningManager struct {
	pruningDepth uint64

	databaseContext model.DBReader

	dagTraversalManager model.DAGTraversalManager
	dagTopologyManager  model.DAGTopologyManager

	pruningStore        model.PruningStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	consensusStateStore model.ConsensusStateStore
	blockHeaderStore    model.BlockHeaderStore
	blockStore          model.BlockStore
	blockRelationStore  model.BlockRelationStore
	blockStatusStore    model.BlockStatusStore
	utxoDiffStore       model.UTXODiffStore
}

// New instantiates a new PruningManager
func New(
	pruningDepth uint64,

	databaseContext model.DBReader,

	dagTraversalManager model.DAGTraversalManager,
	dagTopologyManager model.DAGTopologyManager,

	pruningStore model.PruningStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	consensusStateStore model.ConsensusStateStore,
	blockHeaderStore model.BlockHeaderStore,
	blockStore model.BlockStore,
	blockRelationStore model.BlockRelationStore,
	blockStatusStore model.BlockStatusStore,
	utxoDiffStore model.UTXODiffStore) model.PruningManager {

	return &pruningManager{
		pruningDepth: pruningDepth,

		databaseContext: databaseContext,

		dagTraversalManager: dagTraversalManager,
		dagTopologyManager:  dagTopologyManager,

		pruningStore:        pruningStore,
		ghostdagDataStore:   ghostdagDataStore,
		consensusStateStore: consensusStateStore,
		blockHeaderStore:    blockHeaderStore,
		blockStore:          blockStore,
		blockRelationStore:  blockRelationStore,
		blockStatusStore:    blockStatusStore,
		utxoDiffStore:       utxoDiffStore,
	}
}

// UpdatePruningPointByVirtual moves the pruning point up to the chain
// ancestor of the virtual selected parent at the pruning depth, if that
// ancestor is deeper than the current pruning point. The pruning point only
// ever moves forward, and only onto the selected chain.
func (pm *pruningManager) UpdatePruningPointByVirtual(stagingArea *model.StagingArea) (bool, error) {
	virtualGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return false, err
	}
	virtualSelectedParent := virtualGHOSTDAGData.SelectedParent()

	candidate, err := pm.dagTraversalManager.BlockAtDepth(stagingArea, virtualSelectedParent, pm.pruningDepth)
	if err != nil {
		return false, err
	}

	candidateGHOSTDAGData, err := pm.ghostdagDataStore.Get(pm.databaseContext, stagingArea, candidate)
	if err != nil {
		return false, err
	}
	candidateBlueScore := candidateGHOSTDAGData.BlueScore()

	hasPruningPoint, err := pm.pruningStore.HasPruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return false, err
	}
	if hasPruningPoint {
		currentBlueScore, err := pm.pruningStore.PruningPointBlueScore(pm.databaseContext, stagingArea)
		if err != nil {
			return false, err
		}
		if candidateBlueScore <= currentBlueScore {
			return false, nil
		}
	}

	log.Debugf("Moving pruning point to %s (blue score %d)", candidate, candidateBlueScore)
	pm.pruningStore.StagePruningPoint(stagingArea, candidate, candidateBlueScore)
	return true, nil
}

// PruningPointInfo returns the current pruning point and its blue score.
// Returns nil before a pruning point was ever set.
func (pm *pruningManager) PruningPointInfo(stagingArea *model.StagingArea) (*externalapi.PruningPointInfo, error) {
	hasPruningPoint, err := pm.pruningStore.HasPruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	if !hasPruningPoint {
		return nil, nil
	}

	pruningPoint, err := pm.pruningStore.PruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	blueScore, err := pm.pruningStore.PruningPointBlueScore(pm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	return &externalapi.PruningPointInfo{
		PruningPoint: pruningPoint,
		BlueScore:    blueScore,
	}, nil
}
