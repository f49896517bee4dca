package pruningstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
)

var pruningPointKeyName = []byte("pruning-point")
var pruningPointBlueScoreKeyName = []byte("pruning-point-blue-score")

// pruningStore represents a store for the current pruning state
type pruningStore struct {
	shardID model.StagingShardID

	pruningPointCache          *externalapi.DomainHash
	pruningPointBlueScoreCache uint64
	hasPruningPointCache       bool

	pruningPointKey          model.DBKey
	pruningPointBlueScoreKey model.DBKey
}

// New instantiates a new PruningStore
func New(prefixBucket model.DBBucket) model.PruningStore {
	return &pruningStore{
		shardID:                  staging.GenerateShardingID(),
		pruningPointKey:          prefixBucket.Key(pruningPointKeyName),
		pruningPointBlueScoreKey: prefixBucket.Key(pruningPointBlueScoreKeyName),
	}
}

func (ps *pruningStore) ShardID() model.StagingShardID {
	return ps.shardID
}

// StagePruningPoint stages the pruning point and its blue score
func (ps *pruningStore) StagePruningPoint(stagingArea *model.StagingArea,
	pruningPointBlockHash *externalapi.DomainHash, pruningPointBlueScore uint64) {

	stagingShard := ps.stagingShard(stagingArea)
	stagingShard.pruningPoint = pruningPointBlockHash
	stagingShard.pruningPointBlueScore = pruningPointBlueScore
	stagingShard.hasNewPruningPoint = true
}

func (ps *pruningStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ps.stagingShard(stagingArea).isStaged()
}

// PruningPoint gets the current pruning point
func (ps *pruningStore) PruningPoint(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	stagingShard := ps.stagingShard(stagingArea)

	if stagingShard.hasNewPruningPoint {
		return stagingShard.pruningPoint, nil
	}

	if ps.hasPruningPointCache {
		return ps.pruningPointCache, nil
	}

	pruningPointBytes, err := dbContext.Get(ps.pruningPointKey)
	if err != nil {
		return nil, err
	}

	pruningPoint, err := binaryserialization.DeserializeHash(pruningPointBytes)
	if err != nil {
		return nil, err
	}
	blueScoreBytes, err := dbContext.Get(ps.pruningPointBlueScoreKey)
	if err != nil {
		return nil, err
	}
	blueScore, err := binaryserialization.DeserializeUint64(blueScoreBytes)
	if err != nil {
		return nil, err
	}

	ps.pruningPointCache = pruningPoint
	ps.pruningPointBlueScoreCache = blueScore
	ps.hasPruningPointCache = true
	return pruningPoint, nil
}

// PruningPointBlueScore gets the blue score of the current pruning point
func (ps *pruningStore) PruningPointBlueScore(dbContext model.DBReader, stagingArea *model.StagingArea) (uint64, error) {
	stagingShard := ps.stagingShard(stagingArea)

	if stagingShard.hasNewPruningPoint {
		return stagingShard.pruningPointBlueScore, nil
	}

	if ps.hasPruningPointCache {
		return ps.pruningPointBlueScoreCache, nil
	}

	// Populate the cache.
	_, err := ps.PruningPoint(dbContext, stagingArea)
	if err != nil {
		return 0, err
	}
	return ps.pruningPointBlueScoreCache, nil
}

// HasPruningPoint returns whether a pruning point was set
func (ps *pruningStore) HasPruningPoint(dbContext model.DBReader, stagingArea *model.StagingArea) (bool, error) {
	stagingShard := ps.stagingShard(stagingArea)

	if stagingShard.hasNewPruningPoint {
		return true, nil
	}

	if ps.hasPruningPointCache {
		return true, nil
	}

	return dbContext.Has(ps.pruningPointKey)
}
