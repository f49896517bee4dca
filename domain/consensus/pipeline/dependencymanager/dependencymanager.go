package dependencymanager

import (
	"sync"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/hashset"
)

// PendingBlock is a block waiting for one or more of its parents to finish
// processing, together with the channel its submitter is waiting on
type PendingBlock struct {
	Block      *externalapi.DomainBlock
	ResultChan chan externalapi.BlockProcessResult

	missingParents hashset.HashSet
}

// DependencyManager tracks blocks whose parents did not finish processing
// yet. A block is held until the last of its outstanding parents completes,
// and is then released exactly once. If any ancestor fails, the block and
// all its transitive dependents fail with it.
//
// All state is guarded by a single mutex; the hot path (a block with no
// outstanding dependencies) takes it only briefly.
type DependencyManager struct {
	mutex sync.Mutex

	// processing holds the hashes of blocks that entered the pipeline and
	// did not complete yet, including blocks pending on parents
	processing hashset.HashSet

	// pendingBlocks maps a pending block hash to its outstanding parents
	pendingBlocks map[externalapi.DomainHash]*PendingBlock

	// dependents maps a processing block hash to the hashes of pending
	// blocks waiting for it
	dependents map[externalapi.DomainHash][]*externalapi.DomainHash
}

// New instantiates a new DependencyManager
func New() *DependencyManager {
	return &DependencyManager{
		processing:    hashset.New(),
		pendingBlocks: make(map[externalapi.DomainHash]*PendingBlock),
		dependents:    make(map[externalapi.DomainHash][]*externalapi.DomainHash),
	}
}

// BeginProcessing registers blockHash as in-flight and collects its
// outstanding parents: parents that are themselves in-flight, plus parents
// for which isParentSatisfied reports false. If any parent is outstanding
// the block is parked as pending and pending is true; the block will
// later be handed back through BlockProcessed of its last outstanding
// parent. pending is false if the block may proceed immediately.
//
// A block that is already in-flight is reported through alreadyInFlight
// instead of being registered twice. The check happens under the same
// mutex as the registration, so concurrent submissions of the same block
// admit exactly one of them.
func (dm *DependencyManager) BeginProcessing(blockHash *externalapi.DomainHash,
	block *externalapi.DomainBlock, resultChan chan externalapi.BlockProcessResult,
	isParentSatisfied func(parentHash *externalapi.DomainHash) (bool, error)) (
	pending bool, alreadyInFlight bool, err error) {

	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	if dm.processing.Contains(blockHash) {
		return false, true, nil
	}
	dm.processing.Add(blockHash)

	missingParents := hashset.New()
	for _, parentHash := range block.Header.DirectParents() {
		if dm.processing.Contains(parentHash) {
			missingParents.Add(parentHash)
			continue
		}
		satisfied, err := isParentSatisfied(parentHash)
		if err != nil {
			dm.processing.Remove(blockHash)
			return false, false, err
		}
		if !satisfied {
			missingParents.Add(parentHash)
		}
	}

	if missingParents.Length() == 0 {
		return false, false, nil
	}

	pendingBlock := &PendingBlock{
		Block:          block,
		ResultChan:     resultChan,
		missingParents: missingParents,
	}
	dm.pendingBlocks[*blockHash] = pendingBlock
	for _, parentHash := range missingParents.ToSlice() {
		dm.dependents[*parentHash] = append(dm.dependents[*parentHash], blockHash)
	}

	return true, false, nil
}

// BlockProcessed reports that blockHash finished processing. On success,
// pending blocks whose last outstanding parent this was are removed from
// the pending index and returned for re-dispatch. On failure, all
// transitive dependents are removed, their result channels are resolved
// with ErrInvalidAncestorBlock, and their hashes are returned so the
// caller can record their status.
func (dm *DependencyManager) BlockProcessed(blockHash *externalapi.DomainHash, processErr error) (
	released []*PendingBlock, invalidated []*externalapi.DomainHash) {

	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.processing.Remove(blockHash)

	if processErr != nil {
		return nil, dm.invalidateDependents(blockHash, processErr)
	}

	for _, dependentHash := range dm.dependents[*blockHash] {
		pendingBlock, ok := dm.pendingBlocks[*dependentHash]
		if !ok {
			// Already released or invalidated through another parent.
			continue
		}
		pendingBlock.missingParents.Remove(blockHash)
		if pendingBlock.missingParents.Length() == 0 {
			// Deleting the pending entry under the lock guarantees the
			// block is released exactly once.
			delete(dm.pendingBlocks, *dependentHash)
			released = append(released, pendingBlock)
		}
	}
	delete(dm.dependents, *blockHash)

	return released, nil
}

// invalidateDependents removes all the transitive dependents of blockHash
// and resolves their result channels. Must be called under the mutex.
func (dm *DependencyManager) invalidateDependents(blockHash *externalapi.DomainHash,
	processErr error) []*externalapi.DomainHash {

	invalidated := []*externalapi.DomainHash{}
	queue := []*externalapi.DomainHash{blockHash}
	for len(queue) > 0 {
		var current *externalapi.DomainHash
		current, queue = queue[0], queue[1:]

		for _, dependentHash := range dm.dependents[*current] {
			pendingBlock, ok := dm.pendingBlocks[*dependentHash]
			if !ok {
				continue
			}
			delete(dm.pendingBlocks, *dependentHash)
			dm.processing.Remove(dependentHash)

			if pendingBlock.ResultChan != nil {
				err := ruleerrors.Errorf(ruleerrors.ErrInvalidAncestorBlock,
					"ancestor %s of block %s is invalid", blockHash, dependentHash)
				pendingBlock.ResultChan <- externalapi.BlockProcessResult{
					Hash:   dependentHash,
					Status: externalapi.StatusInvalid,
					Err:    err,
				}
			}

			invalidated = append(invalidated, dependentHash)
			queue = append(queue, dependentHash)
		}
		delete(dm.dependents, *current)
	}

	return invalidated
}

// IsPending returns whether blockHash is parked waiting for parents
func (dm *DependencyManager) IsPending(blockHash *externalapi.DomainHash) bool {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	_, ok := dm.pendingBlocks[*blockHash]
	return ok
}

// PendingCount returns the amount of blocks parked waiting for parents
func (dm *DependencyManager) PendingCount() int {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	return len(dm.pendingBlocks)
}

// IsProcessing returns whether blockHash is currently in-flight in the
// pipeline, pending blocks included
func (dm *DependencyManager) IsProcessing(blockHash *externalapi.DomainHash) bool {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	return dm.processing.Contains(blockHash)
}
