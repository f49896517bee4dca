package consensusstatemanager

import (
	"github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// AddBlockToVirtual makes the given block a candidate virtual parent and
// recomputes the virtual state: tips, virtual parents, virtual GHOSTDAG data,
// and the virtual UTXO set via unwind/replay of the chain path between the
// old and the new virtual selected parents. Returns the traversed chain path
// and whether the given block is now in the selected parent chain of the
// virtual. The caller must serialize calls.
func (csm *consensusStateManager) AddBlockToVirtual(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.SelectedChainPath, bool, error) {

	oldVirtualSelectedParent, err := csm.virtualSelectedParentIfExists(stagingArea)
	if err != nil {
		return nil, false, err
	}

	tips, err := csm.updateTips(stagingArea, blockHash)
	if err != nil {
		return nil, false, err
	}

	virtualParents, err := csm.pickVirtualParents(stagingArea, tips)
	if err != nil {
		return nil, false, err
	}

	err = csm.dagTopologyManager.SetParents(stagingArea, model.VirtualBlockHash, virtualParents)
	if err != nil {
		return nil, false, err
	}

	err = csm.ghostdagManager.GHOSTDAG(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, false, err
	}

	newVirtualSelectedParent, err := csm.VirtualSelectedParent(stagingArea)
	if err != nil {
		return nil, false, err
	}

	chainPath, err := csm.calculateChainPath(stagingArea, oldVirtualSelectedParent, newVirtualSelectedParent)
	if err != nil {
		return nil, false, err
	}

	err = csm.updateVirtualUTXOSet(stagingArea, chainPath)
	if err != nil {
		return nil, false, err
	}

	isBlockInSelectedChain, err := csm.dagTopologyManager.IsInSelectedParentChainOf(
		stagingArea, blockHash, newVirtualSelectedParent)
	if err != nil {
		return nil, false, err
	}

	return chainPath, isBlockInSelectedChain, nil
}

// virtualSelectedParentIfExists returns the virtual selected parent, or nil
// if the virtual was never calculated (i.e. before the genesis block was
// added).
func (csm *consensusStateManager) virtualSelectedParentIfExists(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	hasVirtualGHOSTDAGData, err := csm.ghostdagDataStore.Has(csm.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}
	if !hasVirtualGHOSTDAGData {
		return nil, nil
	}
	return csm.VirtualSelectedParent(stagingArea)
}

// calculateChainPath returns the selected chain path between the old and new
// virtual selected parents. Before the virtual exists the whole selected
// chain of the new selected parent (up to and including genesis) is added.
func (csm *consensusStateManager) calculateChainPath(stagingArea *model.StagingArea,
	oldVirtualSelectedParent, newVirtualSelectedParent *externalapi.DomainHash) (*externalapi.SelectedChainPath, error) {

	if oldVirtualSelectedParent != nil {
		return csm.dagTraversalManager.CalculateChainPath(stagingArea, oldVirtualSelectedParent, newVirtualSelectedParent)
	}

	added := []*externalapi.DomainHash{}
	current := newVirtualSelectedParent
	for current != nil {
		added = append(added, current)
		currentGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, current)
		if err != nil {
			return nil, err
		}
		current = currentGHOSTDAGData.SelectedParent()
	}
	for i, j := 0, len(added)-1; i < j; i, j = i+1, j-1 {
		added[i], added[j] = added[j], added[i]
	}

	return &externalapi.SelectedChainPath{Added: added}, nil
}

// updateTips removes from the tip set any tip that entered the new block's
// past and adds the new block as a tip
func (csm *consensusStateManager) updateTips(stagingArea *model.StagingArea,
	newTipHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	currentTips, err := csm.consensusStateStore.Tips(stagingArea, csm.databaseContext)
	if err != nil {
		if !database.IsNotFoundError(err) {
			return nil, err
		}
		currentTips = []*externalapi.DomainHash{}
	}

	newTips := []*externalapi.DomainHash{newTipHash}
	for _, currentTip := range currentTips {
		isCurrentTipInPastOfNewTip, err := csm.dagTopologyManager.IsAncestorOf(stagingArea, currentTip, newTipHash)
		if err != nil {
			return nil, err
		}
		if !isCurrentTipInPastOfNewTip {
			newTips = append(newTips, currentTip)
		}
	}

	csm.consensusStateStore.StageTips(stagingArea, newTips)
	return newTips, nil
}
