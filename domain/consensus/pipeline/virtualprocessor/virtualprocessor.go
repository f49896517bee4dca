package virtualprocessor

import (
	"sync"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/pipeline"
	"github.com/dagcore/dagd/domain/consensus/pipeline/pruningprocessor"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/infrastructure/logger"
	"github.com/dagcore/dagd/util/panics"
)

var log = logger.RegisterSubSystem("VIRP")
var spawn = panics.GoroutineWrapperFunc(log)

const taskChanCapacity = 1024

type virtualTask struct {
	blockHash *externalapi.DomainHash
	onDone    func(blockStatus externalapi.BlockStatus, err error)
}

// VirtualProcessor is the single-writer pipeline stage that folds validated
// blocks into the virtual state. All virtual updates happen on one
// goroutine consuming an internal task queue, so the virtual state never
// sees concurrent writers.
type VirtualProcessor struct {
	databaseContext model.DBManager

	// relationsWriteLock serializes every writer of the relations index,
	// shared with the header processor. A virtual update rewrites the
	// children lists of the virtual's parents, which are the same keys
	// header workers append to.
	relationsWriteLock *sync.Mutex

	consensusStateManager model.ConsensusStateManager
	pruningProcessor      *pruningprocessor.PruningProcessor

	blockStatusStore model.BlockStatusStore

	counters *pipeline.ProcessingCounters

	taskChan chan *virtualTask
	loopDone chan struct{}

	// onVirtualChange, if set, is called on the processor goroutine after
	// every committed virtual update
	onVirtualChange func()
}

// New instantiates a new VirtualProcessor
func New(
	databaseContext model.DBManager,
	relationsWriteLock *sync.Mutex,
	consensusStateManager model.ConsensusStateManager,
	pruningProcessor *pruningprocessor.PruningProcessor,
	blockStatusStore model.BlockStatusStore,
	counters *pipeline.ProcessingCounters,
	onVirtualChange func()) *VirtualProcessor {

	return &VirtualProcessor{
		databaseContext:    databaseContext,
		relationsWriteLock: relationsWriteLock,

		consensusStateManager: consensusStateManager,
		pruningProcessor:      pruningProcessor,

		blockStatusStore: blockStatusStore,

		counters: counters,

		taskChan: make(chan *virtualTask, taskChanCapacity),
		loopDone: make(chan struct{}),

		onVirtualChange: onVirtualChange,
	}
}

// Start launches the processor goroutine
func (vp *VirtualProcessor) Start() {
	spawn("VirtualProcessor.loop", vp.loop)
}

// Stop drains the task queue and stops the processor goroutine. Enqueue
// must not be called after Stop.
func (vp *VirtualProcessor) Stop() {
	close(vp.taskChan)
	<-vp.loopDone
}

// Enqueue hands a body-processed block to the virtual processor. onDone is
// called on the processor goroutine with the block's resolved status once
// the virtual update was committed.
func (vp *VirtualProcessor) Enqueue(blockHash *externalapi.DomainHash,
	onDone func(blockStatus externalapi.BlockStatus, err error)) {

	vp.taskChan <- &virtualTask{
		blockHash: blockHash,
		onDone:    onDone,
	}
}

func (vp *VirtualProcessor) loop() {
	defer close(vp.loopDone)
	for task := range vp.taskChan {
		vp.processTask(task)
	}
}

func (vp *VirtualProcessor) processTask(task *virtualTask) {
	blockStatus, err := vp.addBlockToVirtual(task.blockHash)
	if err != nil {
		log.Errorf("Failed updating the virtual with block %s: %s", task.blockHash, err)
		task.onDone(0, err)
		return
	}

	if vp.onVirtualChange != nil {
		vp.onVirtualChange()
	}
	task.onDone(blockStatus, nil)
}

func (vp *VirtualProcessor) addBlockToVirtual(blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {
	stagingArea := model.NewStagingArea()

	// Held through the commit: AddBlockToVirtual rewrites relations of the
	// virtual's parents, racing header workers otherwise.
	vp.relationsWriteLock.Lock()
	defer vp.relationsWriteLock.Unlock()

	chainPath, _, err := vp.consensusStateManager.AddBlockToVirtual(stagingArea, blockHash)
	if err != nil {
		return 0, err
	}

	err = vp.pruningProcessor.UpdatePruning(stagingArea)
	if err != nil {
		return 0, err
	}

	err = staging.CommitAllChanges(vp.databaseContext, stagingArea)
	if err != nil {
		return 0, err
	}

	vp.counters.AddChainBlockCounts(uint64(len(chainPath.Added)))

	return vp.blockStatusStore.Get(vp.databaseContext, model.NewStagingArea(), blockHash)
}
