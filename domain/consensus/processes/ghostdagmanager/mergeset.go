package ghostdagmanager

import (
	"sort"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
)

// mergeSetWithoutSelectedParent computes the anticone of selectedParent
// within the past of the new block, i.e. the new block's merge set minus
// the selected parent itself. The result is sorted in GHOSTDAG order.
func (gm *ghostdagManager) mergeSetWithoutSelectedParent(stagingArea *model.StagingArea,
	selectedParent *externalapi.DomainHash, blockParents []*externalapi.DomainHash) (
	[]*externalapi.DomainHash, error) {

	mergeSetMap := make(map[externalapi.DomainHash]struct{}, gm.k)
	mergeSetSlice := make([]*externalapi.DomainHash, 0, gm.k)
	selectedParentPast := hashset.New()

	// Queueing all parents (other than the selected parent itself) for processing.
	queue := []*externalapi.DomainHash{}
	for _, parent := range blockParents {
		if parent.Equal(selectedParent) {
			continue
		}
		mergeSetMap[*parent] = struct{}{}
		mergeSetSlice = append(mergeSetSlice, parent)
		queue = append(queue, parent)
	}

	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		// For each parent of the current block we check whether it is in the
		// past of the selected parent. If not, we add it to the resulting
		// anticone-set and queue it for further processing.
		currentParents, err := gm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		for _, parent := range currentParents {
			if _, ok := mergeSetMap[*parent]; ok {
				continue
			}
			if selectedParentPast.Contains(parent) {
				continue
			}

			isAncestorOfSelectedParent, err := gm.dagTopologyManager.IsAncestorOf(stagingArea, parent, selectedParent)
			if err != nil {
				return nil, err
			}
			if isAncestorOfSelectedParent {
				selectedParentPast.Add(parent)
				continue
			}

			mergeSetMap[*parent] = struct{}{}
			mergeSetSlice = append(mergeSetSlice, parent)
			queue = append(queue, parent)
		}
	}

	err := gm.sortMergeSet(stagingArea, mergeSetSlice)
	if err != nil {
		return nil, err
	}

	return mergeSetSlice, nil
}

func (gm *ghostdagManager) sortMergeSet(stagingArea *model.StagingArea,
	mergeSetSlice []*externalapi.DomainHash) error {

	var err error
	sort.Slice(mergeSetSlice, func(i, j int) bool {
		if err != nil {
			return false
		}
		isLess, lessErr := gm.less(stagingArea, mergeSetSlice[i], mergeSetSlice[j])
		if lessErr != nil {
			err = lessErr
			return false
		}
		return isLess
	})
	return err
}

// GetSortedMergeSet returns the merge set of the given block, sorted in
// GHOSTDAG order: the selected parent first, then the rest of the merge set
// by ascending blue work.
func (gm *ghostdagManager) GetSortedMergeSet(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	blockGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	selectedParent := blockGHOSTDAGData.SelectedParent()
	if selectedParent == nil {
		return nil, nil
	}

	mergeSet := blockGHOSTDAGData.MergeSet()
	sortedMergeSet := make([]*externalapi.DomainHash, 0, len(mergeSet))
	sortedMergeSet = append(sortedMergeSet, selectedParent)
	for _, hash := range mergeSet {
		if hash.Equal(selectedParent) {
			continue
		}
		sortedMergeSet = append(sortedMergeSet, hash)
	}
	err = gm.sortMergeSet(stagingArea, sortedMergeSet[1:])
	if err != nil {
		return nil, err
	}

	return sortedMergeSet, nil
}
