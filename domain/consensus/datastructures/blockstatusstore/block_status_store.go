package blockstatusstore

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var bucketName = []byte("block-statuses")

// blockStatusStore represents a store of BlockStatuses
type blockStatusStore struct {
	shardID model.StagingShardID
	cache   *lru.Cache
	bucket  model.DBBucket
}

// New instantiates a new BlockStatusStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.BlockStatusStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockStatusStore{
		shardID: staging.GenerateShardingID(),
		cache:   cache,
		bucket:  prefixBucket.Bucket(bucketName),
	}, nil
}

func (bss *blockStatusStore) ShardID() model.StagingShardID {
	return bss.shardID
}

// Stage stages the given blockStatus for the given blockHash
func (bss *blockStatusStore) Stage(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, blockStatus externalapi.BlockStatus) {

	stagingShard := bss.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockStatus
}

func (bss *blockStatusStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bss.stagingShard(stagingArea).isStaged()
}

// Get gets the blockStatus associated with the given blockHash
func (bss *blockStatusStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (externalapi.BlockStatus, error) {

	stagingShard := bss.stagingShard(stagingArea)

	if status, ok := stagingShard.toAdd[*blockHash]; ok {
		return status, nil
	}

	if status, ok := bss.cache.Get(*blockHash); ok {
		return status.(externalapi.BlockStatus), nil
	}

	statusBytes, err := dbContext.Get(bss.hashAsKey(blockHash))
	if err != nil {
		return 0, err
	}
	if len(statusBytes) != 1 {
		return 0, errors.Errorf("unexpected block status length: %d", len(statusBytes))
	}

	status := externalapi.BlockStatus(statusBytes[0])
	bss.cache.Add(*blockHash, status)
	return status, nil
}

// Exists returns true if the blockStatus for the given blockHash exists
func (bss *blockStatusStore) Exists(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bss.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bss.cache.Contains(*blockHash) {
		return true, nil
	}

	return dbContext.Has(bss.hashAsKey(blockHash))
}

func (bss *blockStatusStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bss.stagingShard(stagingArea)
	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (bss *blockStatusStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bss.bucket.Key(hash.ByteSlice())
}
