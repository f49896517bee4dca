package blockheaderstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var bucketName = []byte("block-headers")
var countKeyName = []byte("block-headers-count")

// blockHeaderStore represents a store of block headers
type blockHeaderStore struct {
	shardID     model.StagingShardID
	cache       *lru.Cache
	countCached uint64
	bucket      model.DBBucket
	countKey    model.DBKey
}

// New instantiates a new BlockHeaderStore
func New(dbContext model.DBReader, prefixBucket model.DBBucket, cacheSize int) (model.BlockHeaderStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	blockHeaderStore := &blockHeaderStore{
		shardID:  staging.GenerateShardingID(),
		cache:    cache,
		bucket:   prefixBucket.Bucket(bucketName),
		countKey: prefixBucket.Key(countKeyName),
	}

	err = blockHeaderStore.initializeCount(dbContext)
	if err != nil {
		return nil, err
	}

	return blockHeaderStore, nil
}

func (bhs *blockHeaderStore) initializeCount(dbContext model.DBReader) error {
	count := uint64(0)
	hasCount, err := dbContext.Has(bhs.countKey)
	if err != nil {
		return err
	}
	if hasCount {
		countBytes, err := dbContext.Get(bhs.countKey)
		if err != nil {
			return err
		}
		count, err = binaryserialization.DeserializeUint64(countBytes)
		if err != nil {
			return err
		}
	}
	bhs.countCached = count
	return nil
}

func (bhs *blockHeaderStore) ShardID() model.StagingShardID {
	return bhs.shardID
}

// Stage stages the given block header for the given blockHash
func (bhs *blockHeaderStore) Stage(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, blockHeader *externalapi.DomainBlockHeader) {

	stagingShard := bhs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockHeader.Clone()
}

func (bhs *blockHeaderStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bhs.stagingShard(stagingArea).isStaged()
}

// BlockHeader gets the block header associated with the given blockHash
func (bhs *blockHeaderStore) BlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.DomainBlockHeader, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	if header, ok := stagingShard.toAdd[*blockHash]; ok {
		return header.Clone(), nil
	}

	if header, ok := bhs.cache.Get(*blockHash); ok {
		return header.(*externalapi.DomainBlockHeader).Clone(), nil
	}

	headerBytes, err := dbContext.Get(bhs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	header, err := binaryserialization.DeserializeHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	bhs.cache.Add(*blockHash, header)
	return header.Clone(), nil
}

// HasBlockHeader returns whether a block header for the given blockHash exists
func (bhs *blockHeaderStore) HasBlockHeader(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bhs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if bhs.cache.Contains(*blockHash) {
		return true, nil
	}

	return dbContext.Has(bhs.hashAsKey(blockHash))
}

// BlockHeaders gets the block headers associated with the given blockHashes
func (bhs *blockHeaderStore) BlockHeaders(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHashes []*externalapi.DomainHash) ([]*externalapi.DomainBlockHeader, error) {

	headers := make([]*externalapi.DomainBlockHeader, len(blockHashes))
	for i, hash := range blockHashes {
		var err error
		headers[i], err = bhs.BlockHeader(dbContext, stagingArea, hash)
		if err != nil {
			return nil, err
		}
	}
	return headers, nil
}

func (bhs *blockHeaderStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bhs.stagingShard(stagingArea)
	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

// Count returns the amount of block headers in the store
func (bhs *blockHeaderStore) Count(stagingArea *model.StagingArea) uint64 {
	return bhs.count(bhs.stagingShard(stagingArea))
}

func (bhs *blockHeaderStore) count(stagingShard *blockHeaderStagingShard) uint64 {
	return bhs.countCached + uint64(len(stagingShard.toAdd)) - uint64(len(stagingShard.toDelete))
}

func (bhs *blockHeaderStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bhs.bucket.Key(hash.ByteSlice())
}
