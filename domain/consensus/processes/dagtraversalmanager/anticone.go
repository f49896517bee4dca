package dagtraversalmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
)

// AnticoneFromContext returns the blocks in the anticone of blockHash that are
// in the past of contextHash. The traversal starts at contextHash's parents and
// walks down; anything found to be in the past of blockHash is pruned together
// with its own past. maxBlocks caps the number of returned blocks, where zero
// means no cap.
func (dtm *dagTraversalManager) AnticoneFromContext(stagingArea *model.StagingArea,
	blockHash, contextHash *externalapi.DomainHash, maxBlocks uint64) ([]*externalapi.DomainHash, error) {

	anticone := []*externalapi.DomainHash{}
	queue, err := dtm.dagTopologyManager.Parents(stagingArea, contextHash)
	if err != nil {
		return nil, err
	}
	visited := hashset.New()

	for len(queue) > 0 {
		if maxBlocks > 0 && uint64(len(anticone)) == maxBlocks {
			break
		}

		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		if visited.Contains(current) {
			continue
		}
		visited.Add(current)

		currentIsAncestorOfBlock, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, current, blockHash)
		if err != nil {
			return nil, err
		}
		if currentIsAncestorOfBlock {
			// The whole past of current is an ancestor of blockHash as
			// well, so there's nothing further to collect down this path.
			continue
		}

		blockIsAncestorOfCurrent, err := dtm.dagTopologyManager.IsAncestorOf(stagingArea, blockHash, current)
		if err != nil {
			return nil, err
		}
		if !blockIsAncestorOfCurrent {
			anticone = append(anticone, current)
		}

		currentParents, err := dtm.dagTopologyManager.Parents(stagingArea, current)
		if err != nil {
			return nil, err
		}
		queue = append(queue, currentParents...)
	}

	return anticone, nil
}
