package blockvalidator

import (
	"math/big"
	"time"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/txmass"
)

// blockValidator exposes a set of validation classes, each one validating
// some particular aspect of a block
type blockValidator struct {
	powMax            *big.Int
	powLimitBits      uint32
	skipPoW           bool
	genesisHash       *externalapi.DomainHash
	maxBlockParents   int
	maxBlockMass      uint64
	mergeSetSizeLimit uint64

	timestampDeviationTolerance int
	targetTimePerBlock          time.Duration

	databaseContext       model.DBReader
	dagTopologyManager    model.DAGTopologyManager
	pastMedianTimeManager model.PastMedianTimeManager
	ghostdagDataStore     model.GHOSTDAGDataStore
	blockHeaderStore      model.BlockHeaderStore
	blockStatusStore      model.BlockStatusStore
	txMassCalculator      *txmass.Calculator
}

// New instantiates a new BlockValidator
func New(powMax *big.Int,
	powLimitBits uint32,
	skipPoW bool,
	genesisHash *externalapi.DomainHash,
	maxBlockParents int,
	maxBlockMass uint64,
	mergeSetSizeLimit uint64,
	timestampDeviationTolerance int,
	targetTimePerBlock time.Duration,

	databaseContext model.DBReader,
	dagTopologyManager model.DAGTopologyManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	ghostdagDataStore model.GHOSTDAGDataStore,
	blockHeaderStore model.BlockHeaderStore,
	blockStatusStore model.BlockStatusStore,
	txMassCalculator *txmass.Calculator) model.BlockValidator {

	return &blockValidator{
		powMax:            powMax,
		powLimitBits:      powLimitBits,
		skipPoW:           skipPoW,
		genesisHash:       genesisHash,
		maxBlockParents:   maxBlockParents,
		maxBlockMass:      maxBlockMass,
		mergeSetSizeLimit: mergeSetSizeLimit,

		timestampDeviationTolerance: timestampDeviationTolerance,
		targetTimePerBlock:          targetTimePerBlock,

		databaseContext:       databaseContext,
		dagTopologyManager:    dagTopologyManager,
		pastMedianTimeManager: pastMedianTimeManager,
		ghostdagDataStore:     ghostdagDataStore,
		blockHeaderStore:      blockHeaderStore,
		blockStatusStore:      blockStatusStore,
		txMassCalculator:      txMassCalculator,
	}
}
