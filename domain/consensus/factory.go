package consensus

import (
	"runtime"
	"sync"

	consensusdatabase "github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/datastructures/blockheaderstore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/blockrelationstore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/blockstatusstore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/blockstore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/consensusstatestore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/pruningstore"
	"github.com/dagcore/dagd/domain/consensus/datastructures/utxodiffstore"
	"github.com/dagcore/dagd/domain/consensus/pipeline"
	"github.com/dagcore/dagd/domain/consensus/pipeline/bodyprocessor"
	"github.com/dagcore/dagd/domain/consensus/pipeline/dependencymanager"
	"github.com/dagcore/dagd/domain/consensus/pipeline/headerprocessor"
	"github.com/dagcore/dagd/domain/consensus/pipeline/pruningprocessor"
	"github.com/dagcore/dagd/domain/consensus/pipeline/virtualprocessor"
	"github.com/dagcore/dagd/domain/consensus/processes/blockvalidator"
	"github.com/dagcore/dagd/domain/consensus/processes/consensusstatemanager"
	"github.com/dagcore/dagd/domain/consensus/processes/dagtopologymanager"
	"github.com/dagcore/dagd/domain/consensus/processes/dagtraversalmanager"
	"github.com/dagcore/dagd/domain/consensus/processes/ghostdagmanager"
	"github.com/dagcore/dagd/domain/consensus/processes/pastmediantimemanager"
	"github.com/dagcore/dagd/domain/consensus/processes/pruningmanager"
	"github.com/dagcore/dagd/domain/consensus/processes/syncmanager"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/txmass"
	"github.com/dagcore/dagd/domain/dagconfig"
	infrastructuredatabase "github.com/dagcore/dagd/infrastructure/db/database"
)

const defaultStoreCacheSize = 10_000

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(params *dagconfig.Params, db infrastructuredatabase.Database) (Consensus, error)
}

type factory struct{}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}

// NewConsensus instantiates a consensus over the given database, assembling
// the stores, the algorithm managers and the processing pipeline.
func (f *factory) NewConsensus(params *dagconfig.Params,
	db infrastructuredatabase.Database) (Consensus, error) {

	dbManager := consensusdatabase.New(db)
	prefixBucket := consensusdatabase.MakeBucket(nil)

	// Data stores
	blockHeaderStore, err := blockheaderstore.New(dbManager, prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	blockStore, err := blockstore.New(dbManager, prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	blockRelationStore, err := blockrelationstore.New(prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	blockStatusStore, err := blockstatusstore.New(prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	ghostdagDataStore, err := ghostdagdatastore.New(prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	utxoDiffStore, err := utxodiffstore.New(prefixBucket, defaultStoreCacheSize)
	if err != nil {
		return nil, err
	}
	pruningStore := pruningstore.New(prefixBucket)
	consensusStateStore := consensusstatestore.New(prefixBucket)

	// Processes
	dagTopologyManager := dagtopologymanager.New(
		dbManager,
		blockRelationStore,
		ghostdagDataStore)
	ghostdagManager := ghostdagmanager.New(
		dbManager,
		dagTopologyManager,
		ghostdagDataStore,
		blockHeaderStore,
		params.K,
		params.GenesisHash)
	dagTraversalManager := dagtraversalmanager.New(
		dbManager,
		dagTopologyManager,
		ghostdagManager,
		ghostdagDataStore)
	pastMedianTimeManager := pastmediantimemanager.New(
		int(params.TimestampDeviationTolerance),
		dbManager,
		ghostdagDataStore,
		blockHeaderStore)
	blockValidator := blockvalidator.New(
		params.PowLimit,
		params.PowLimitBits,
		params.SkipProofOfWork,
		params.GenesisHash,
		params.MaxBlockParents,
		constants.MaxMassAcceptedByBlock,
		params.MergeSetSizeLimit,
		int(params.TimestampDeviationTolerance),
		params.TargetTimePerBlock,
		dbManager,
		dagTopologyManager,
		pastMedianTimeManager,
		ghostdagDataStore,
		blockHeaderStore,
		blockStatusStore,
		txmass.NewCalculator(constants.MassPerTxByte))
	consensusStateManager := consensusstatemanager.New(
		params.MaxBlockParents,
		params.MergeSetSizeLimit,
		params.GenesisHash,
		dbManager,
		ghostdagManager,
		dagTopologyManager,
		dagTraversalManager,
		blockStatusStore,
		ghostdagDataStore,
		consensusStateStore,
		utxoDiffStore,
		blockStore)
	pruningManager := pruningmanager.New(
		params.PruningDepth(),
		dbManager,
		dagTraversalManager,
		dagTopologyManager,
		pruningStore,
		ghostdagDataStore,
		consensusStateStore,
		blockHeaderStore,
		blockStore,
		blockRelationStore,
		blockStatusStore,
		utxoDiffStore)
	syncManager := syncmanager.New(
		dbManager,
		dagTraversalManager)

	// Pipeline
	counters := &pipeline.ProcessingCounters{}

	// Shared by the header processor and the virtual processor: both
	// rewrite children lists in the relations index, and the rewrite spans
	// a read and a later commit.
	relationsWriteLock := &sync.Mutex{}

	headerProcessor := headerprocessor.New(
		dbManager,
		relationsWriteLock,
		blockValidator,
		ghostdagManager,
		dagTopologyManager,
		blockHeaderStore,
		blockStatusStore,
		ghostdagDataStore,
		pruningStore,
		counters)
	bodyProcessor := bodyprocessor.New(
		dbManager,
		blockValidator,
		blockStore,
		blockStatusStore,
		counters)
	pruningProcessor := pruningprocessor.New(pruningManager)

	c := &consensus{
		genesisBlock: params.GenesisBlock,
		genesisHash:  params.GenesisHash,

		databaseContext: dbManager,

		headerProcessor:   headerProcessor,
		bodyProcessor:     bodyProcessor,
		dependencyManager: dependencymanager.New(),

		syncManager:           syncManager,
		pruningManager:        pruningManager,
		pastMedianTimeManager: pastMedianTimeManager,

		blockHeaderStore:    blockHeaderStore,
		blockStatusStore:    blockStatusStore,
		ghostdagDataStore:   ghostdagDataStore,
		blockRelationStore:  blockRelationStore,
		consensusStateStore: consensusStateStore,

		counters: counters,

		submissionChan: make(chan *submissionTask, submissionChanCapacity),
		workerCount:    runtime.NumCPU(),
	}
	c.virtualProcessor = virtualprocessor.New(
		dbManager,
		relationsWriteLock,
		consensusStateManager,
		pruningProcessor,
		blockStatusStore,
		counters,
		c.updateVirtualInfo)

	return c, nil
}
