package utxodiffstore

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/domain/consensus/utils/utxo"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var bucketName = []byte("utxo-diffs")

// utxoDiffStore represents a store of UTXODiffs
type utxoDiffStore struct {
	shardID model.StagingShardID
	cache   *lru.Cache
	bucket  model.DBBucket
}

// New instantiates a new UTXODiffStore
func New(prefixBucket model.DBBucket, cacheSize int) (model.UTXODiffStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &utxoDiffStore{
		shardID: staging.GenerateShardingID(),
		cache:   cache,
		bucket:  prefixBucket.Bucket(bucketName),
	}, nil
}

func (uds *utxoDiffStore) ShardID() model.StagingShardID {
	return uds.shardID
}

// Stage stages the given utxoDiff for the given blockHash
func (uds *utxoDiffStore) Stage(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, utxoDiff model.UTXODiff) {

	stagingShard := uds.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = utxoDiff
}

func (uds *utxoDiffStore) IsStaged(stagingArea *model.StagingArea) bool {
	return uds.stagingShard(stagingArea).isStaged()
}

// UTXODiff gets the utxoDiff associated with the given blockHash
func (uds *utxoDiffStore) UTXODiff(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (model.UTXODiff, error) {

	stagingShard := uds.stagingShard(stagingArea)

	if utxoDiff, ok := stagingShard.toAdd[*blockHash]; ok {
		return utxoDiff, nil
	}

	if utxoDiff, ok := uds.cache.Get(*blockHash); ok {
		return utxoDiff.(model.UTXODiff), nil
	}

	utxoDiffBytes, err := dbContext.Get(uds.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	utxoDiff, err := utxo.DeserializeUTXODiff(utxoDiffBytes)
	if err != nil {
		return nil, err
	}
	uds.cache.Add(*blockHash, utxoDiff)
	return utxoDiff, nil
}

// HasUTXODiff returns whether a utxoDiff for the given blockHash exists
func (uds *utxoDiffStore) HasUTXODiff(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := uds.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if uds.cache.Contains(*blockHash) {
		return true, nil
	}

	return dbContext.Has(uds.hashAsKey(blockHash))
}

func (uds *utxoDiffStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := uds.stagingShard(stagingArea)
	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (uds *utxoDiffStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return uds.bucket.Key(hash.ByteSlice())
}
