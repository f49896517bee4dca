package consensusstatemanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashes"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
	"github.com/pkg/errors"
)

// pickVirtualParents picks the virtual parents out of the given tips: the
// tip with the highest blue work becomes the virtual selected parent, and
// more tips are added in descending blue work order as long as the virtual
// merge set stays within the merge set size limit and the amount of parents
// within MaxBlockParents. Disqualified and invalid tips never become virtual
// parents.
func (csm *consensusStateManager) pickVirtualParents(stagingArea *model.StagingArea,
	tips []*externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	candidatesHeap := csm.dagTraversalManager.NewDownHeap(stagingArea)
	for _, tip := range tips {
		isEligible, err := csm.isEligibleVirtualParent(stagingArea, tip)
		if err != nil {
			return nil, err
		}
		if !isEligible {
			continue
		}
		err = candidatesHeap.Push(tip)
		if err != nil {
			return nil, err
		}
	}

	if candidatesHeap.Len() == 0 {
		return nil, errors.Errorf("no tip is eligible to be a virtual parent")
	}

	// The first candidate is the tip with the highest blue work. It is
	// the designated virtual selected parent and is never dropped.
	virtualParents := []*externalapi.DomainHash{candidatesHeap.Pop()}
	mergeSetSize := uint64(1)

	for candidatesHeap.Len() > 0 && len(virtualParents) < csm.maxBlockParents {
		candidate := candidatesHeap.Pop()

		mergeSetIncrease, err := csm.mergeSetIncrease(stagingArea, candidate, virtualParents)
		if err != nil {
			return nil, err
		}
		if mergeSetSize+mergeSetIncrease > csm.mergeSetSizeLimit {
			continue
		}

		virtualParents = append(virtualParents, candidate)
		mergeSetSize += mergeSetIncrease
	}

	log.Tracef("Picked virtual parents: %s", hashes.JoinHashesStrings(virtualParents, ", "))
	return virtualParents, nil
}

func (csm *consensusStateManager) isEligibleVirtualParent(stagingArea *model.StagingArea,
	tip *externalapi.DomainHash) (bool, error) {

	status, err := csm.blockStatusStore.Get(csm.databaseContext, stagingArea, tip)
	if err != nil {
		return false, err
	}
	return status != externalapi.StatusInvalid &&
		status != externalapi.StatusDisqualifiedFromChain, nil
}

// mergeSetIncrease returns the amount of blocks the candidate introduces
// into the virtual's merge set on top of the already-picked parents: the
// size of the candidate's past (including itself) that is not in the past
// of any picked parent. The traversal short-circuits once the merge set
// size limit is crossed.
func (csm *consensusStateManager) mergeSetIncrease(stagingArea *model.StagingArea,
	candidate *externalapi.DomainHash, virtualParents []*externalapi.DomainHash) (uint64, error) {

	visited := hashset.New()
	queue := []*externalapi.DomainHash{candidate}
	mergeSetIncrease := uint64(0)

	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		if visited.Contains(current) {
			continue
		}
		visited.Add(current)

		isInPastOfPickedParents, err := csm.dagTopologyManager.IsAncestorOfAny(stagingArea, current, virtualParents)
		if err != nil {
			return 0, err
		}
		if isInPastOfPickedParents {
			continue
		}

		mergeSetIncrease++
		if mergeSetIncrease > csm.mergeSetSizeLimit {
			break
		}

		parents, err := csm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return 0, err
		}
		queue = append(queue, parents...)
	}

	return mergeSetIncrease, nil
}
