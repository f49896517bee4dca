package consensusstatestore

import (
	"github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/multiset"
	"github.com/dagcore/dagd/domain/consensus/utils/staging"
	"github.com/dagcore/dagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

var tipsKeyName = []byte("tips")
var utxoSetBucketName = []byte("virtual-utxo-set")
var virtualMultisetKeyName = []byte("virtual-multiset")

// consensusStateStore represents a store for the current consensus state
type consensusStateStore struct {
	shardID model.StagingShardID

	tipsCache            []*externalapi.DomainHash
	virtualMultisetCache model.Multiset

	tipsKey            model.DBKey
	utxoSetBucket      model.DBBucket
	virtualMultisetKey model.DBKey
}

// New instantiates a new ConsensusStateStore
func New(prefixBucket model.DBBucket) model.ConsensusStateStore {
	return &consensusStateStore{
		shardID:            staging.GenerateShardingID(),
		tipsKey:            prefixBucket.Key(tipsKeyName),
		utxoSetBucket:      prefixBucket.Bucket(utxoSetBucketName),
		virtualMultisetKey: prefixBucket.Key(virtualMultisetKeyName),
	}
}

func (css *consensusStateStore) ShardID() model.StagingShardID {
	return css.shardID
}

// StageTips stages the given tipHashes
func (css *consensusStateStore) StageTips(stagingArea *model.StagingArea, tipHashes []*externalapi.DomainHash) {
	stagingShard := css.stagingShard(stagingArea)
	stagingShard.tips = externalapi.CloneHashes(tipHashes)
}

// Tips returns the current DAG tips
func (css *consensusStateStore) Tips(stagingArea *model.StagingArea, dbContext model.DBReader) ([]*externalapi.DomainHash, error) {
	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.tips != nil {
		return externalapi.CloneHashes(stagingShard.tips), nil
	}

	if css.tipsCache != nil {
		return externalapi.CloneHashes(css.tipsCache), nil
	}

	tipsBytes, err := dbContext.Get(css.tipsKey)
	if err != nil {
		return nil, err
	}

	tips, err := binaryserialization.DeserializeHashes(tipsBytes)
	if err != nil {
		return nil, err
	}
	css.tipsCache = tips
	return externalapi.CloneHashes(tips), nil
}

// StageVirtualUTXODiff stages the given virtualUTXODiff to be applied to
// the virtual UTXO set on commit
func (css *consensusStateStore) StageVirtualUTXODiff(stagingArea *model.StagingArea, virtualUTXODiff model.UTXODiff) {
	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff == nil {
		stagingShard.virtualUTXODiff = virtualUTXODiff
		return
	}

	// Merge the new diff on top of the already-staged one.
	mutableDiff := utxo.NewMutableUTXODiff()
	err := mutableDiff.WithDiffInPlace(stagingShard.virtualUTXODiff)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. A staged diff is always self-consistent"))
	}
	err = mutableDiff.WithDiffInPlace(virtualUTXODiff)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Merged diffs originate from the same UTXO set"))
	}
	stagingShard.virtualUTXODiff = mutableDiff.ToImmutable()
}

// UTXOByOutpoint returns the UTXO entry associated with the given outpoint
// in the virtual UTXO set
func (css *consensusStateStore) UTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {

	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff != nil {
		if entry, ok := stagingShard.virtualUTXODiff.ToAdd().Get(outpoint); ok {
			return entry, nil
		}
		if stagingShard.virtualUTXODiff.ToRemove().Contains(outpoint) {
			return nil, errors.Wrapf(database.ErrNotFound, "outpoint %s was spent", outpoint)
		}
	}

	outpointKey, err := css.outpointAsKey(outpoint)
	if err != nil {
		return nil, err
	}
	entryBytes, err := dbContext.Get(outpointKey)
	if err != nil {
		return nil, err
	}
	return utxo.DeserializeUTXOEntry(entryBytes)
}

// HasUTXOByOutpoint returns whether the given outpoint exists in the
// virtual UTXO set
func (css *consensusStateStore) HasUTXOByOutpoint(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (bool, error) {

	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualUTXODiff != nil {
		if stagingShard.virtualUTXODiff.ToAdd().Contains(outpoint) {
			return true, nil
		}
		if stagingShard.virtualUTXODiff.ToRemove().Contains(outpoint) {
			return false, nil
		}
	}

	outpointKey, err := css.outpointAsKey(outpoint)
	if err != nil {
		return false, err
	}
	return dbContext.Has(outpointKey)
}

// VirtualUTXOSetCount returns the number of entries in the committed virtual
// UTXO set. Staged changes are not reflected.
func (css *consensusStateStore) VirtualUTXOSetCount(dbContext model.DBReader) (uint64, error) {
	cursor, err := dbContext.Cursor(css.utxoSetBucket)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	count := uint64(0)
	for cursor.Next() {
		count++
	}
	return count, nil
}

// StageVirtualMultiset stages the given multiset of the virtual UTXO set
func (css *consensusStateStore) StageVirtualMultiset(stagingArea *model.StagingArea, multiset model.Multiset) {
	stagingShard := css.stagingShard(stagingArea)
	stagingShard.virtualMultiset = multiset.Clone()
}

// VirtualMultiset returns the multiset of the virtual UTXO set
func (css *consensusStateStore) VirtualMultiset(dbContext model.DBReader, stagingArea *model.StagingArea) (model.Multiset, error) {
	stagingShard := css.stagingShard(stagingArea)

	if stagingShard.virtualMultiset != nil {
		return stagingShard.virtualMultiset.Clone(), nil
	}

	if css.virtualMultisetCache != nil {
		return css.virtualMultisetCache.Clone(), nil
	}

	multisetBytes, err := dbContext.Get(css.virtualMultisetKey)
	if err != nil {
		return nil, err
	}

	virtualMultiset, err := multiset.FromBytes(multisetBytes)
	if err != nil {
		return nil, err
	}
	css.virtualMultisetCache = virtualMultiset
	return virtualMultiset.Clone(), nil
}

func (css *consensusStateStore) outpointAsKey(outpoint *externalapi.DomainOutpoint) (model.DBKey, error) {
	serializedOutpoint, err := utxo.SerializeOutpoint(outpoint)
	if err != nil {
		return nil, err
	}
	return css.utxoSetBucket.Key(serializedOutpoint), nil
}
