package bodyprocessor

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/pipeline"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BODP")

// BodyProcessor is the pipeline stage that validates a block's transaction
// body against its header commitments and stores it. After this stage the
// block carries StatusUTXOPendingVerification and is ready for the virtual
// processor.
type BodyProcessor struct {
	databaseContext model.DBManager

	blockValidator model.BlockValidator

	blockStore       model.BlockStore
	blockStatusStore model.BlockStatusStore

	counters *pipeline.ProcessingCounters
}

// New instantiates a new BodyProcessor
func New(
	databaseContext model.DBManager,
	blockValidator model.BlockValidator,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	counters *pipeline.ProcessingCounters) *BodyProcessor {

	return &BodyProcessor{
		databaseContext: databaseContext,

		blockValidator: blockValidator,

		blockStore:       blockStore,
		blockStatusStore: blockStatusStore,

		counters: counters,
	}
}

// ProcessBody validates the given block's body in isolation, stores it and
// flips the block status to StatusUTXOPendingVerification, atomically. The
// block's header must have been processed already.
func (bp *BodyProcessor) ProcessBody(block *externalapi.DomainBlock) error {
	blockHash := consensushashing.BlockHash(block)
	log.Debugf("Processing body of block %s", blockHash)

	stagingArea := model.NewStagingArea()

	err := bp.blockValidator.ValidateBodyInIsolation(stagingArea, block)
	if err != nil {
		return err
	}

	bp.blockStore.Stage(stagingArea, blockHash, block)
	bp.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOPendingVerification)

	err = staging.CommitAllChanges(bp.databaseContext, stagingArea)
	if err != nil {
		return err
	}

	blockMass := uint64(0)
	for _, transaction := range block.Transactions {
		blockMass += transaction.Mass
	}

	bp.counters.AddBodyCounts(1)
	bp.counters.AddTxsCounts(uint64(len(block.Transactions)))
	bp.counters.AddMassCounts(blockMass)
	return nil
}
