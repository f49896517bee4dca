package consensus

import (
	"sync"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/pipeline"
	"github.com/dagcore/dagd/domain/consensus/pipeline/bodyprocessor"
	"github.com/dagcore/dagd/domain/consensus/pipeline/dependencymanager"
	"github.com/dagcore/dagd/domain/consensus/pipeline/headerprocessor"
	"github.com/dagcore/dagd/domain/consensus/pipeline/virtualprocessor"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/infrastructure/db/database"
	"github.com/pkg/errors"
)

// Consensus is the public entry point to the block-acceptance pipeline and
// to the DAG's query surface. All methods are safe for concurrent use.
type Consensus interface {
	// Init inserts the genesis block if the database does not contain it
	// yet. Must be called after Start and before any block submission.
	Init() error

	// Start launches the worker pool and the virtual processor goroutine
	Start()

	// Stop shuts the pipeline down. Blocks still in flight are abandoned,
	// so callers should let submissions quiesce first.
	Stop()

	// ValidateAndInsertBlock submits the given block and waits for the
	// pipeline to fully process it
	ValidateAndInsertBlock(block *externalapi.DomainBlock) error

	// SubmitBlock submits the given block for asynchronous processing.
	// The returned channel resolves with the block's final status once
	// the virtual state was updated with it, or with an error.
	SubmitBlock(block *externalapi.DomainBlock) <-chan externalapi.BlockProcessResult

	GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error)
	GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error)
	GetAnticone(blockHash, contextHash *externalapi.DomainHash, maxBlocks uint64) ([]*externalapi.DomainHash, error)
	PruningPoint() (*externalapi.PruningPointInfo, error)
	Tips() ([]*externalapi.DomainHash, error)
	GetVirtualInfo() (*externalapi.VirtualInfo, error)
	GetVirtualUTXOSetSize() (uint64, error)
	Counters() *pipeline.ProcessingCounters
}

const submissionChanCapacity = 4096

// ErrStopped is returned for blocks submitted after Stop was called
var ErrStopped = errors.New("the consensus is shutting down")

type submissionTask struct {
	block      *externalapi.DomainBlock
	blockHash  *externalapi.DomainHash
	resultChan chan externalapi.BlockProcessResult

	// isRedispatch marks a block released by the dependency manager. Such
	// a block is already registered as in-flight and its parents are known
	// to be done, so it goes straight into the pipeline stages.
	isRedispatch bool
}

type consensus struct {
	genesisBlock *externalapi.DomainBlock
	genesisHash  *externalapi.DomainHash

	databaseContext model.DBManager

	headerProcessor   *headerprocessor.HeaderProcessor
	bodyProcessor     *bodyprocessor.BodyProcessor
	virtualProcessor  *virtualprocessor.VirtualProcessor
	dependencyManager *dependencymanager.DependencyManager

	syncManager           model.SyncManager
	pruningManager        model.PruningManager
	pastMedianTimeManager model.PastMedianTimeManager

	blockHeaderStore    model.BlockHeaderStore
	blockStatusStore    model.BlockStatusStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	blockRelationStore  model.BlockRelationStore
	consensusStateStore model.ConsensusStateStore

	counters *pipeline.ProcessingCounters

	submissionChan chan *submissionTask
	workerCount    int
	workersDone    sync.WaitGroup

	// stopLock guards submissionChan against a send after Stop closed it.
	// Senders hold the read side for the duration of the send.
	stopLock  sync.RWMutex
	isStopped bool

	virtualInfoLock sync.RWMutex
	virtualInfo     *externalapi.VirtualInfo
}

func (c *consensus) Init() error {
	stagingArea := model.NewStagingArea()
	exists, err := c.blockStatusStore.Exists(c.databaseContext, stagingArea, c.genesisHash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Infof("Inserting the genesis block %s", c.genesisHash)
	return c.ValidateAndInsertBlock(c.genesisBlock)
}

func (c *consensus) Start() {
	c.virtualProcessor.Start()
	c.workersDone.Add(c.workerCount)
	for i := 0; i < c.workerCount; i++ {
		spawn("consensus.worker", c.worker)
	}
}

func (c *consensus) Stop() {
	c.stopLock.Lock()
	if c.isStopped {
		c.stopLock.Unlock()
		return
	}
	c.isStopped = true
	c.stopLock.Unlock()

	close(c.submissionChan)
	c.workersDone.Wait()
	c.virtualProcessor.Stop()
}

func (c *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) error {
	result := <-c.SubmitBlock(block)
	return result.Err
}

func (c *consensus) SubmitBlock(block *externalapi.DomainBlock) <-chan externalapi.BlockProcessResult {
	c.counters.AddBlocksSubmitted(1)

	resultChan := make(chan externalapi.BlockProcessResult, 1)
	blockHash := consensushashing.BlockHash(block)
	task := &submissionTask{
		block:      block,
		blockHash:  blockHash,
		resultChan: resultChan,
	}
	if !c.trySubmit(task) {
		c.resolve(resultChan, blockHash, externalapi.StatusInvalid, errors.WithStack(ErrStopped))
	}
	return resultChan
}

// trySubmit sends the task to the worker pool unless the consensus was
// stopped. The read lock is held for the whole send so Stop cannot close
// the channel out from under it.
func (c *consensus) trySubmit(task *submissionTask) bool {
	c.stopLock.RLock()
	defer c.stopLock.RUnlock()

	if c.isStopped {
		return false
	}
	c.submissionChan <- task
	return true
}

func (c *consensus) worker() {
	defer c.workersDone.Done()

	for task := range c.submissionChan {
		if task.isRedispatch {
			c.runPipeline(task.blockHash, task.block, task.resultChan)
			continue
		}
		c.processSubmission(task)
	}
}

func (c *consensus) processSubmission(task *submissionTask) {
	blockHash := task.blockHash

	status, exists, err := c.blockStatus(blockHash)
	if err != nil {
		c.resolve(task.resultChan, blockHash, externalapi.StatusInvalid, err)
		return
	}
	if exists {
		if status == externalapi.StatusInvalid {
			c.resolve(task.resultChan, blockHash, status,
				ruleerrors.Errorf(ruleerrors.ErrKnownInvalid, "block %s is a known invalid block", blockHash))
			return
		}
		c.resolve(task.resultChan, blockHash, status,
			ruleerrors.Errorf(ruleerrors.ErrDuplicateBlock, "block %s was already processed", blockHash))
		return
	}
	pending, alreadyInFlight, err := c.dependencyManager.BeginProcessing(
		blockHash, task.block, task.resultChan, c.isParentSatisfied)
	if err != nil {
		if ruleerrors.Is(err) {
			c.markBlocksInvalid([]*externalapi.DomainHash{blockHash})
		}
		c.resolve(task.resultChan, blockHash, externalapi.StatusInvalid, err)
		return
	}
	if alreadyInFlight {
		c.resolve(task.resultChan, blockHash, externalapi.StatusHeaderOnly,
			ruleerrors.Errorf(ruleerrors.ErrDuplicateBlock, "block %s is already being processed", blockHash))
		return
	}
	if pending {
		log.Debugf("Block %s is pending on unprocessed parents", blockHash)
		return
	}

	c.runPipeline(blockHash, task.block, task.resultChan)
}

// isParentSatisfied reports whether a parent that is not in-flight already
// completed the pipeline. A parent known to be invalid fails the block right
// away rather than parking it. Called by the dependency manager under its
// lock.
func (c *consensus) isParentSatisfied(parentHash *externalapi.DomainHash) (bool, error) {
	status, exists, err := c.blockStatus(parentHash)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if status == externalapi.StatusInvalid {
		return false, ruleerrors.Errorf(ruleerrors.ErrInvalidAncestorBlock,
			"parent %s is a known invalid block", parentHash)
	}
	return status.IsBodyProcessed(), nil
}

// runPipeline takes a block whose parents are all done through the header,
// body and virtual stages. The dependency manager is notified when the
// virtual stage completes, which is what releases the block's dependents.
func (c *consensus) runPipeline(blockHash *externalapi.DomainHash,
	block *externalapi.DomainBlock, resultChan chan externalapi.BlockProcessResult) {

	err := c.headerProcessor.ProcessHeader(block)
	if err != nil {
		c.handleProcessingFailure(blockHash, resultChan, err)
		return
	}

	err = c.bodyProcessor.ProcessBody(block)
	if err != nil {
		c.handleProcessingFailure(blockHash, resultChan, err)
		return
	}

	c.virtualProcessor.Enqueue(blockHash, func(blockStatus externalapi.BlockStatus, err error) {
		if err != nil {
			c.handleProcessingFailure(blockHash, resultChan, err)
			return
		}

		c.resolve(resultChan, blockHash, blockStatus, nil)

		released, _ := c.dependencyManager.BlockProcessed(blockHash, nil)
		for _, pendingBlock := range released {
			c.redispatch(pendingBlock)
		}
	})
}

// redispatch puts a released pending block back on the worker pool. Called
// from the virtual processor goroutine, which must never block on a full
// submission queue. Blocks released while the consensus is shutting down
// are abandoned with ErrStopped, since Stop drains the virtual queue after
// the submission channel is already closed.
func (c *consensus) redispatch(pendingBlock *dependencymanager.PendingBlock) {
	blockHash := consensushashing.BlockHash(pendingBlock.Block)
	task := &submissionTask{
		block:        pendingBlock.Block,
		blockHash:    blockHash,
		resultChan:   pendingBlock.ResultChan,
		isRedispatch: true,
	}

	c.stopLock.RLock()
	if c.isStopped {
		c.stopLock.RUnlock()
		if pendingBlock.ResultChan != nil {
			c.resolve(pendingBlock.ResultChan, blockHash, externalapi.StatusInvalid, errors.WithStack(ErrStopped))
		}
		return
	}

	select {
	case c.submissionChan <- task:
		c.stopLock.RUnlock()
	default:
		spawn("consensus.redispatch", func() {
			defer c.stopLock.RUnlock()
			c.submissionChan <- task
		})
	}
}

func (c *consensus) handleProcessingFailure(blockHash *externalapi.DomainHash,
	resultChan chan externalapi.BlockProcessResult, processErr error) {

	_, invalidated := c.dependencyManager.BlockProcessed(blockHash, processErr)

	// A rule violation is a property of the block, so it is recorded
	// durably. Infrastructure errors are not: the same block may well
	// succeed on resubmission.
	if ruleerrors.Is(processErr) {
		log.Infof("Block %s failed validation: %s", blockHash, processErr)
		c.markBlocksInvalid(append([]*externalapi.DomainHash{blockHash}, invalidated...))
	} else {
		log.Errorf("Failed processing block %s: %s", blockHash, processErr)
	}

	c.resolve(resultChan, blockHash, externalapi.StatusInvalid, processErr)
}

// markBlocksInvalid commits StatusInvalid for the given blocks in a single
// staging area. A commit failure here is logged and swallowed: the statuses
// are an optimization for future duplicate submissions, not a correctness
// requirement.
func (c *consensus) markBlocksInvalid(blockHashes []*externalapi.DomainHash) {
	stagingArea := model.NewStagingArea()
	for _, blockHash := range blockHashes {
		c.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusInvalid)
	}

	err := staging.CommitAllChanges(c.databaseContext, stagingArea)
	if err != nil {
		log.Errorf("Failed recording invalid statuses: %s", err)
	}
}

func (c *consensus) resolve(resultChan chan externalapi.BlockProcessResult,
	blockHash *externalapi.DomainHash, blockStatus externalapi.BlockStatus, err error) {

	resultChan <- externalapi.BlockProcessResult{
		Hash:   blockHash,
		Status: blockStatus,
		Err:    err,
	}
}

func (c *consensus) blockStatus(blockHash *externalapi.DomainHash) (
	externalapi.BlockStatus, bool, error) {

	stagingArea := model.NewStagingArea()
	exists, err := c.blockStatusStore.Exists(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, nil
	}
	status, err := c.blockStatusStore.Get(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, false, err
	}
	return status, true, nil
}

func (c *consensus) GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	stagingArea := model.NewStagingArea()

	blockInfo := &externalapi.BlockInfo{}
	exists, err := c.blockStatusStore.Exists(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	if !exists {
		return blockInfo, nil
	}
	blockInfo.Exists = true

	blockStatus, err := c.blockStatusStore.Get(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.BlockStatus = blockStatus

	ghostdagData, err := c.ghostdagDataStore.Get(c.databaseContext, stagingArea, blockHash)
	if err != nil {
		// An invalid block may have been rejected before its GHOSTDAG
		// data was resolved.
		if database.IsNotFoundError(err) {
			return blockInfo, nil
		}
		return nil, err
	}

	blockInfo.BlueScore = ghostdagData.BlueScore()
	blockInfo.BlueWork = ghostdagData.BlueWork()
	blockInfo.SelectedParent = ghostdagData.SelectedParent()
	blockInfo.MergeSetBlues = ghostdagData.MergeSetBlues()
	blockInfo.MergeSetReds = ghostdagData.MergeSetReds()

	return blockInfo, nil
}

func (c *consensus) GetBlockHeader(blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {
	return c.blockHeaderStore.BlockHeader(c.databaseContext, model.NewStagingArea(), blockHash)
}

func (c *consensus) GetAnticone(blockHash, contextHash *externalapi.DomainHash,
	maxBlocks uint64) ([]*externalapi.DomainHash, error) {

	return c.syncManager.GetAnticone(model.NewStagingArea(), blockHash, contextHash, maxBlocks)
}

func (c *consensus) PruningPoint() (*externalapi.PruningPointInfo, error) {
	return c.pruningManager.PruningPointInfo(model.NewStagingArea())
}

func (c *consensus) Tips() ([]*externalapi.DomainHash, error) {
	return c.consensusStateStore.Tips(model.NewStagingArea(), c.databaseContext)
}

func (c *consensus) GetVirtualInfo() (*externalapi.VirtualInfo, error) {
	c.virtualInfoLock.RLock()
	virtualInfo := c.virtualInfo
	c.virtualInfoLock.RUnlock()

	if virtualInfo != nil {
		return virtualInfo, nil
	}
	return c.buildVirtualInfo()
}

// GetVirtualUTXOSetSize returns the number of entries in the virtual UTXO set
func (c *consensus) GetVirtualUTXOSetSize() (uint64, error) {
	return c.consensusStateStore.VirtualUTXOSetCount(c.databaseContext)
}

func (c *consensus) Counters() *pipeline.ProcessingCounters {
	return c.counters
}

// updateVirtualInfo rebuilds the virtual snapshot. It runs on the virtual
// processor goroutine after every committed virtual update, so readers of
// GetVirtualInfo observe whole updates only.
func (c *consensus) updateVirtualInfo() {
	virtualInfo, err := c.buildVirtualInfo()
	if err != nil {
		log.Errorf("Failed refreshing the virtual snapshot: %s", err)
		return
	}

	c.virtualInfoLock.Lock()
	c.virtualInfo = virtualInfo
	c.virtualInfoLock.Unlock()
}

func (c *consensus) buildVirtualInfo() (*externalapi.VirtualInfo, error) {
	stagingArea := model.NewStagingArea()

	virtualGHOSTDAGData, err := c.ghostdagDataStore.Get(
		c.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, errors.Errorf("the virtual state was not initialized yet")
		}
		return nil, err
	}

	virtualRelations, err := c.blockRelationStore.BlockRelation(
		c.databaseContext, stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}

	pastMedianTime, err := c.pastMedianTimeManager.PastMedianTime(stagingArea, model.VirtualBlockHash)
	if err != nil {
		return nil, err
	}

	virtualMultiset, err := c.consensusStateStore.VirtualMultiset(c.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	return &externalapi.VirtualInfo{
		ParentHashes:   virtualRelations.Parents,
		SelectedParent: virtualGHOSTDAGData.SelectedParent(),
		BlueScore:      virtualGHOSTDAGData.BlueScore(),
		BlueWork:       virtualGHOSTDAGData.BlueWork(),
		PastMedianTime: pastMedianTime,
		UTXOCommitment: virtualMultiset.Hash(),
	}, nil
}
