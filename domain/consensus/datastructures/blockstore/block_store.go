package blockstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var bucketName = []byte("blocks")
var countKeyName = []byte("blocks-count")

// blockStore represents a store of blocks
type blockStore struct {
	shardID     model.StagingShardID
	cache       *lru.Cache
	countCached uint64
	bucket      model.DBBucket
	countKey    model.DBKey
}

// New instantiates a new BlockStore
func New(dbContext model.DBReader, prefixBucket model.DBBucket, cacheSize int) (model.BlockStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	blockStore := &blockStore{
		shardID:  staging.GenerateShardingID(),
		cache:    cache,
		bucket:   prefixBucket.Bucket(bucketName),
		countKey: prefixBucket.Key(countKeyName),
	}

	err = blockStore.initializeCount(dbContext)
	if err != nil {
		return nil, err
	}

	return blockStore, nil
}

func (bs *blockStore) initializeCount(dbContext model.DBReader) error {
	count := uint64(0)
	hasCount, err := dbContext.Has(bs.countKey)
	if err != nil {
		return err
	}
	if hasCount {
		countBytes, err := dbContext.Get(bs.countKey)
		if err != nil {
			return err
		}
		count, err = binaryserialization.DeserializeUint64(countBytes)
		if err != nil {
			return err
		}
	}
	bs.countCached = count
	return nil
}

func (bs *blockStore) ShardID() model.StagingShardID {
	return bs.shardID
}

// Stage stages the given block for the given blockHash
func (bs *blockStore) Stage(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, block *externalapi.DomainBlock) {

	stagingShard := bs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = block.Clone()
}

func (bs *blockStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bs.stagingShard(stagingArea).isStaged()
}

// Block gets the block associated with the given blockHash
func (bs *blockStore) Block(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {

	stagingShard := bs.stagingShard(stagingArea)

	if block, ok := stagingShard.toAdd[*blockHash]; ok {
		return block.Clone(), nil
	}

	if block, ok := bs.cache.Get(*blockHash); ok {
		return block.(*externalapi.DomainBlock).Clone(), nil
	}

	blockBytes, err := dbContext.Get(bs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	block, err := binaryserialization.DeserializeBlock(blockBytes)
	if err != nil {
		return nil, err
	}
	bs.cache.Add(*blockHash, block)
	return block.Clone(), nil
}

// HasBlock returns whether a block for the given blockHash exists
func (bs *blockStore) HasBlock(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bs.cache.Contains(*blockHash) {
		return true, nil
	}

	return dbContext.Has(bs.hashAsKey(blockHash))
}

func (bs *blockStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bs.stagingShard(stagingArea)
	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

// Count returns the amount of blocks in the store
func (bs *blockStore) Count(stagingArea *model.StagingArea) uint64 {
	return bs.count(bs.stagingShard(stagingArea))
}

func (bs *blockStore) count(stagingShard *blockStagingShard) uint64 {
	return bs.countCached + uint64(len(stagingShard.toAdd)) - uint64(len(stagingShard.toDelete))
}

func (bs *blockStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bs.bucket.Key(hash.ByteSlice())
}
