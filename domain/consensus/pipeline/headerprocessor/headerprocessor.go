package headerprocessor

import (
	"sync"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/pipeline"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("HDRP")

// HeaderProcessor is the first pipeline stage: it validates a block's
// header, resolves its GHOSTDAG data and commits both atomically. After
// this stage the block is known to the DAG with StatusHeaderOnly.
type HeaderProcessor struct {
	databaseContext model.DBManager

	// relationsWriteLock serializes every writer of the relations index,
	// shared with the virtual processor. SetParents reads each parent's
	// children list and rewrites it, so the read and the commit must form
	// one critical section or concurrent siblings drop each other's child
	// edges.
	relationsWriteLock *sync.Mutex

	blockValidator     model.BlockValidator
	ghostdagManager    model.GHOSTDAGManager
	dagTopologyManager model.DAGTopologyManager

	blockHeaderStore  model.BlockHeaderStore
	blockStatusStore  model.BlockStatusStore
	ghostdagDataStore model.GHOSTDAGDataStore
	pruningStore      model.PruningStore

	counters *pipeline.ProcessingCounters
}

// New instantiates a new HeaderProcessor
func New(
	databaseContext model.DBManager,
	relationsWriteLock *sync.Mutex,

	blockValidator model.BlockValidator,
	ghostdagManager model.GHOSTDAGManager,
	dagTopologyManager model.DAGTopologyManager,

	blockHeaderStore model.BlockHeaderStore,
	blockStatusStore model.BlockStatusStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	pruningStore model.PruningStore,

	counters *pipeline.ProcessingCounters) *HeaderProcessor {

	return &HeaderProcessor{
		databaseContext:    databaseContext,
		relationsWriteLock: relationsWriteLock,

		blockValidator:     blockValidator,
		ghostdagManager:    ghostdagManager,
		dagTopologyManager: dagTopologyManager,

		blockHeaderStore:  blockHeaderStore,
		blockStatusStore:  blockStatusStore,
		ghostdagDataStore: ghostdagDataStore,
		pruningStore:      pruningStore,

		counters: counters,
	}
}

// ProcessHeader validates the given block's header in isolation and in
// context, resolves its GHOSTDAG data, and commits the header, relations,
// GHOSTDAG data and StatusHeaderOnly atomically. The block's direct parents
// must have processed headers already.
func (hp *HeaderProcessor) ProcessHeader(block *externalapi.DomainBlock) error {
	blockHash := consensushashing.BlockHash(block)
	log.Debugf("Processing header of block %s", blockHash)

	stagingArea := model.NewStagingArea()

	err := hp.blockValidator.ValidateHeaderInIsolation(stagingArea, block)
	if err != nil {
		return err
	}

	hp.blockHeaderStore.Stage(stagingArea, blockHash, block.Header)

	// The lock is held until the staged changes are committed below.
	// Releasing it earlier would let a concurrent sibling read the parents'
	// children lists without this block's edge and overwrite it on commit.
	hp.relationsWriteLock.Lock()
	defer hp.relationsWriteLock.Unlock()

	err = hp.dagTopologyManager.SetParents(stagingArea, blockHash, block.Header.DirectParents())
	if err != nil {
		return err
	}

	err = hp.ghostdagManager.GHOSTDAG(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = hp.checkAgainstPruningPoint(stagingArea, blockHash)
	if err != nil {
		return err
	}

	err = hp.blockValidator.ValidateHeaderInContext(stagingArea, block)
	if err != nil {
		return err
	}

	hp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusHeaderOnly)

	err = staging.CommitAllChanges(hp.databaseContext, stagingArea)
	if err != nil {
		return err
	}

	hp.counters.AddHeaderCounts(1)
	hp.counters.AddDepCounts(1)
	return nil
}

// checkAgainstPruningPoint rejects blocks whose blue score falls below the
// pruning point: their past was already discarded, so they can never be
// fully validated.
func (hp *HeaderProcessor) checkAgainstPruningPoint(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) error {

	hasPruningPoint, err := hp.pruningStore.HasPruningPoint(hp.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if !hasPruningPoint {
		return nil
	}

	pruningPointBlueScore, err := hp.pruningStore.PruningPointBlueScore(hp.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	blockGHOSTDAGData, err := hp.ghostdagDataStore.Get(hp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	if blockGHOSTDAGData.BlueScore() < pruningPointBlueScore {
		return ruleerrors.Errorf(ruleerrors.ErrPrunedBlock,
			"block %s has blue score %d which is below the pruning point blue score %d",
			blockHash, blockGHOSTDAGData.BlueScore(), pruningPointBlueScore)
	}
	return nil
}
