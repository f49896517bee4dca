package pruningmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
)

// PruneAllBlocksBelow deletes the data of all blocks in the pruning point's
// past that are not reachable from any retained block. Reachability is
// determined by traversing down from the current tips, where the traversal
// does not continue past the pruning point itself: the pruning point becomes
// the horizon of the DAG.
func (pm *pruningManager) PruneAllBlocksBelow(stagingArea *model.StagingArea) error {
	hasPruningPoint, err := pm.pruningStore.HasPruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if !hasPruningPoint {
		return nil
	}

	pruningPoint, err := pm.pruningStore.PruningPoint(pm.databaseContext, stagingArea)
	if err != nil {
		return err
	}

	retained, err := pm.retainedBlocks(stagingArea, pruningPoint)
	if err != nil {
		return err
	}

	prunedCount := 0
	candidatesQueue, err := pm.dagTopologyManager.Parents(stagingArea, pruningPoint)
	if err != nil {
		return err
	}
	visited := hashset.New()
	for len(candidatesQueue) > 0 {
		var current *externalapi.DomainHash
		current, candidatesQueue = candidatesQueue[0], candidatesQueue[1:]

		if visited.Contains(current) {
			continue
		}
		visited.Add(current)

		// A block may have already been pruned by a previous pass.
		hasRelations, err := pm.blockRelationStore.Has(pm.databaseContext, stagingArea, current)
		if err != nil {
			return err
		}
		if !hasRelations {
			continue
		}

		currentParents, err := pm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return err
		}
		candidatesQueue = append(candidatesQueue, currentParents...)

		if retained.Contains(current) {
			continue
		}

		pm.deleteBlock(stagingArea, current)
		prunedCount++
	}

	if prunedCount > 0 {
		log.Debugf("Pruned %d blocks below pruning point %s", prunedCount, pruningPoint)
	}
	return nil
}

// retainedBlocks collects all blocks reachable from the current tips without
// traversing past the pruning point
func (pm *pruningManager) retainedBlocks(stagingArea *model.StagingArea,
	pruningPoint *externalapi.DomainHash) (hashset.HashSet, error) {

	retained := hashset.New()
	retained.Add(pruningPoint)

	tips, err := pm.consensusStateStore.Tips(stagingArea, pm.databaseContext)
	if err != nil {
		return nil, err
	}

	queue := externalapi.CloneHashes(tips)
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		if current.Equal(pruningPoint) {
			// Do not traverse into the pruning point's past.
			continue
		}
		if retained.Contains(current) {
			continue
		}
		retained.Add(current)

		currentParents, err := pm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		queue = append(queue, currentParents...)
	}

	return retained, nil
}

func (pm *pruningManager) deleteBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	pm.blockHeaderStore.Delete(stagingArea, blockHash)
	pm.blockStore.Delete(stagingArea, blockHash)
	pm.blockRelationStore.Delete(stagingArea, blockHash)
	pm.blockStatusStore.Delete(stagingArea, blockHash)
	pm.ghostdagDataStore.Delete(stagingArea, blockHash)
	pm.utxoDiffStore.Delete(stagingArea, blockHash)
}
