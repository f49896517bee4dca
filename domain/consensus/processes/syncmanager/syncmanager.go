package syncmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// syncManager exposes methods to support sync peers with the DAG state
type syncManager struct {
	databaseContext model.DBReader

	dagTraversalManager model.DAGTraversalManager
}

// New instantiates a new SyncManager
func New(
	databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager) model.SyncManager {

	return &syncManager{
		databaseContext:     databaseContext,
		dagTraversalManager: dagTraversalManager,
	}
}

// GetAnticone returns the blocks in the anticone of blockHash that are in
// the past of contextHash, sorted by ascending blue work so that a peer may
// process them in topological order. maxBlocks of zero means no cap.
func (sm *syncManager) GetAnticone(stagingArea *model.StagingArea,
	blockHash, contextHash *externalapi.DomainHash, maxBlocks uint64) ([]*externalapi.DomainHash, error) {

	anticone, err := sm.dagTraversalManager.AnticoneFromContext(stagingArea, blockHash, contextHash, maxBlocks)
	if err != nil {
		return nil, err
	}

	// An up heap pops the lowest blue work first.
	heap := sm.dagTraversalManager.NewUpHeap(stagingArea)
	err = heap.PushSlice(anticone)
	if err != nil {
		return nil, err
	}

	return heap.ToSlice(), nil
}
