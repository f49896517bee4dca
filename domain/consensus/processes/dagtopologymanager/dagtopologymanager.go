package dagtopologymanager

import (
	"github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
)

// dagTopologyManager exposes methods for querying relationships
// between blocks in the DAG
type dagTopologyManager struct {
	blockRelationStore model.BlockRelationStore
	ghostdagDataStore  model.GHOSTDAGDataStore
	databaseContext    model.DBReader
}

// New instantiates a new dagTopologyManager
func New(
	databaseContext model.DBReader,
	blockRelationStore model.BlockRelationStore,
	ghostdagDataStore model.GHOSTDAGDataStore) model.DAGTopologyManager {

	return &dagTopologyManager{
		databaseContext:    databaseContext,
		blockRelationStore: blockRelationStore,
		ghostdagDataStore:  ghostdagDataStore,
	}
}

// Parents returns the DAG parents of the given blockHash
func (dtm *dagTopologyManager) Parents(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return blockRelations.Parents, nil
}

// Children returns the DAG children of the given blockHash
func (dtm *dagTopologyManager) Children(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return blockRelations.Children, nil
}

// IsParentOf returns true if blockHashA is a direct DAG parent of blockHashB
func (dtm *dagTopologyManager) IsParentOf(stagingArea *model.StagingArea, blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {
	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return isHashInSlice(blockHashA, blockRelations.Parents), nil
}

// IsChildOf returns true if blockHashA is a direct DAG child of blockHashB
func (dtm *dagTopologyManager) IsChildOf(stagingArea *model.StagingArea, blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {
	blockRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return isHashInSlice(blockHashA, blockRelations.Children), nil
}

// IsAncestorOf returns true if blockHashA is a DAG ancestor of blockHashB.
// Note that every block is considered an ancestor of itself. The check
// walks blockHashB's past, pruning the walk using blue scores: a proper
// ancestor's blue score is always strictly smaller than its descendant's.
func (dtm *dagTopologyManager) IsAncestorOf(stagingArea *model.StagingArea, blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {
	if blockHashA.Equal(blockHashB) {
		return true, nil
	}

	ghostdagDataA, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	lowBlueScore := ghostdagDataA.BlueScore()

	visited := hashset.New()
	queue := []*externalapi.DomainHash{blockHashB}
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		parents, err := dtm.Parents(stagingArea, current)
		if err != nil {
			return false, err
		}
		for _, parent := range parents {
			if parent.Equal(blockHashA) {
				return true, nil
			}
			if visited.Contains(parent) {
				continue
			}
			visited.Add(parent)

			parentGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, parent)
			if err != nil {
				if database.IsNotFoundError(err) {
					// The parent was pruned. A block that is only
					// reachable below the pruning horizon would have
					// been pruned itself, so the searched ancestor
					// cannot be down this path.
					continue
				}
				return false, err
			}
			if parentGHOSTDAGData.BlueScore() <= lowBlueScore {
				// Anything in this parent's past has an even lower
				// blue score, so blockHashA can't be there.
				continue
			}
			queue = append(queue, parent)
		}
	}
	return false, nil
}

// IsAncestorOfAny returns true if blockHash is an ancestor of any of potentialDescendants
func (dtm *dagTopologyManager) IsAncestorOfAny(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, potentialDescendants []*externalapi.DomainHash) (bool, error) {
	for _, potentialDescendant := range potentialDescendants {
		isAncestorOf, err := dtm.IsAncestorOf(stagingArea, blockHash, potentialDescendant)
		if err != nil {
			return false, err
		}
		if isAncestorOf {
			return true, nil
		}
	}
	return false, nil
}

// IsAnyAncestorOf returns true if any of potentialAncestors is an ancestor of blockHash
func (dtm *dagTopologyManager) IsAnyAncestorOf(stagingArea *model.StagingArea, potentialAncestors []*externalapi.DomainHash, blockHash *externalapi.DomainHash) (bool, error) {
	for _, potentialAncestor := range potentialAncestors {
		isAncestorOf, err := dtm.IsAncestorOf(stagingArea, potentialAncestor, blockHash)
		if err != nil {
			return false, err
		}
		if isAncestorOf {
			return true, nil
		}
	}
	return false, nil
}

// IsInSelectedParentChainOf returns true if blockHashA is in the selected parent chain of blockHashB
func (dtm *dagTopologyManager) IsInSelectedParentChainOf(stagingArea *model.StagingArea, blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {
	ghostdagDataA, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	lowBlueScore := ghostdagDataA.BlueScore()

	current := blockHashB
	for {
		if current.Equal(blockHashA) {
			return true, nil
		}
		currentGHOSTDAGData, err := dtm.ghostdagDataStore.Get(dtm.databaseContext, stagingArea, current)
		if err != nil {
			if database.IsNotFoundError(err) {
				// The chain walk crossed the pruning horizon.
				return false, nil
			}
			return false, err
		}
		if currentGHOSTDAGData.BlueScore() < lowBlueScore {
			return false, nil
		}
		selectedParent := currentGHOSTDAGData.SelectedParent()
		if selectedParent == nil {
			return false, nil
		}
		current = selectedParent
	}
}

// SetParents sets the parents of blockHash, and updates the children
// lists of all the given parents accordingly
func (dtm *dagTopologyManager) SetParents(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash, parentHashes []*externalapi.DomainHash) error {
	hasRelations, err := dtm.blockRelationStore.Has(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	if hasRelations {
		// Go over the block's current relations and disconnect the block
		// from its current parents.
		currentRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}

		for _, currentParent := range currentRelations.Parents {
			parentRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, currentParent)
			if err != nil {
				return err
			}
			for i, parentChild := range parentRelations.Children {
				if parentChild.Equal(blockHash) {
					parentRelations.Children = append(parentRelations.Children[:i], parentRelations.Children[i+1:]...)
					dtm.blockRelationStore.StageBlockRelation(stagingArea, currentParent, parentRelations)
					break
				}
			}
		}
	}

	// Go over all new parents and add block as their child
	for _, parent := range parentHashes {
		parentRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, parent)
		if err != nil {
			return err
		}
		isBlockAlreadyInChildren := false
		for _, parentChild := range parentRelations.Children {
			if parentChild.Equal(blockHash) {
				isBlockAlreadyInChildren = true
				break
			}
		}
		if !isBlockAlreadyInChildren {
			parentRelations.Children = append(parentRelations.Children, blockHash)
			dtm.blockRelationStore.StageBlockRelation(stagingArea, parent, parentRelations)
		}
	}

	// Finally, stage the new parents relation for the block itself. If the
	// block already had children, keep them.
	children := []*externalapi.DomainHash{}
	if hasRelations {
		currentRelations, err := dtm.blockRelationStore.BlockRelation(dtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		children = currentRelations.Children
	}
	dtm.blockRelationStore.StageBlockRelation(stagingArea, blockHash, &model.BlockRelations{
		Parents:  parentHashes,
		Children: children,
	})

	return nil
}

func isHashInSlice(hash *externalapi.DomainHash, hashes []*externalapi.DomainHash) bool {
	for _, h := range hashes {
		if h.Equal(hash) {
			return true
		}
	}
	return false
}
