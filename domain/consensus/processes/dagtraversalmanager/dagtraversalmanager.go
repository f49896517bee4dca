package dagtraversalmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// dagTraversalManager exposes methods for traversing blocks
// in the DAG
type dagTraversalManager struct {
	databaseContext model.DBReader

	dagTopologyManager model.DAGTopologyManager
	ghostdagManager    model.GHOSTDAGManager
	ghostdagDataStore  model.GHOSTDAGDataStore
}

// New instantiates a new dagTraversalManager
func New(
	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	ghostdagManager model.GHOSTDAGManager,
	ghostdagDataStore model.GHOSTDAGDataStore) model.DAGTraversalManager {

	return &dagTraversalManager{
		databaseContext:    databaseContext,
		dagTopologyManager: dagTopologyManager,
		ghostdagManager:    ghostdagManager,
		ghostdagDataStore:  ghostdagDataStore,
	}
}

// BlockAtDepth returns the hash of the highest block on the selected chain of
// highHash whose blue score is at least `depth` lower than highHash's. If the
// chain is shorter than that, the chain's root (genesis) is returned.
func (dtm *dagTraversalManager) BlockAtDepth(stagingArea *model.StagingArea,
	highHash *externalapi.DomainHash, depth uint64) (*externalapi.DomainHash, error) {

	currentBlockHash := highHash
	highBlockGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, highHash)
	if err != nil {
		return nil, err
	}

	highBlockBlueScore := highBlockGHOSTDAGData.BlueScore()
	currentBlockGHOSTDAGData := highBlockGHOSTDAGData
	for highBlockBlueScore-currentBlockGHOSTDAGData.BlueScore() < depth {
		if currentBlockGHOSTDAGData.SelectedParent() == nil { // genesis
			break
		}

		currentBlockHash = currentBlockGHOSTDAGData.SelectedParent()
		currentBlockGHOSTDAGData, err = dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, currentBlockHash)
		if err != nil {
			return nil, err
		}
	}
	return currentBlockHash, nil
}

// CalculateChainPath returns the symmetric difference between the selected
// parent chains of fromBlockHash and toBlockHash: the blocks that exit the
// selected chain and the blocks that enter it when the chain tip moves from
// fromBlockHash to toBlockHash.
func (dtm *dagTraversalManager) CalculateChainPath(stagingArea *model.StagingArea,
	fromBlockHash, toBlockHash *externalapi.DomainHash) (*externalapi.SelectedChainPath, error) {

	// Walk down from fromBlockHash until we reach the common selected
	// parent chain ancestor of fromBlockHash and toBlockHash. Note
	// that this slice will be empty if fromBlockHash is in the selected
	// parent chain of toBlockHash
	var removed []*externalapi.DomainHash
	current := fromBlockHash
	for {
		isCurrentInTheSelectedParentChainOfNewVirtualSelectedParent, err :=
			dtm.dagTopologyManager.IsInSelectedParentChainOf(stagingArea, current, toBlockHash)
		if err != nil {
			return nil, err
		}
		if isCurrentInTheSelectedParentChainOfNewVirtualSelectedParent {
			break
		}
		removed = append(removed, current)

		currentGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		if currentGHOSTDAGData.SelectedParent() == nil {
			return nil, errors.Errorf("the selected parent chains of %s and %s never intersect",
				fromBlockHash, toBlockHash)
		}
		current = currentGHOSTDAGData.SelectedParent()
	}
	commonAncestor := current

	// Walk down from toBlockHash to the common ancestor
	var added []*externalapi.DomainHash
	current = toBlockHash
	for !current.Equal(commonAncestor) {
		added = append(added, current)
		currentGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		current = currentGHOSTDAGData.SelectedParent()
	}

	// Reverse the order of `added` so that it's sorted from the common
	// ancestor upwards
	for i, j := 0, len(added)-1; i < j; i, j = i+1, j-1 {
		added[i], added[j] = added[j], added[i]
	}

	return &externalapi.SelectedChainPath{
		Added:   added,
		Removed: removed,
	}, nil
}
