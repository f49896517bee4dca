package model

// StagingShard is an interface that enables every store to have its own Commit logic
// See StagingArea for more details
type StagingShard interface {
	Commit(dbTx DBTransaction) error
}

// StagingShardID is used to identify each of the store's staging shards
type StagingShardID uint64

// StagingArea is single changeset inside the consensus database, similar to a transaction in a
// classic database.
// Each store becomes a part of the StagingArea by creating a StagingShard and placing it inside
// the StagingArea, so that once the StagingArea is committed - all the shards are committed
// within a single database transaction.
// A StagingArea is not thread-safe: a single pipeline stage owns the area it
// created until it is either committed or discarded.
type StagingArea struct {
	shards      []StagingShard
	isCommitted bool
}

// NewStagingArea creates a new, empty staging area
func NewStagingArea() *StagingArea {
	return &StagingArea{
		shards:      []StagingShard{},
		isCommitted: false,
	}
}

// GetOrCreateShard attempts to retrieve the shard with the given ID.
// If it does not exist - a new shard is created using `createFunc`.
func (sa *StagingArea) GetOrCreateShard(shardID StagingShardID, createFunc func() StagingShard) StagingShard {
	for uint64(len(sa.shards)) <= uint64(shardID) {
		sa.shards = append(sa.shards, nil)
	}
	if sa.shards[shardID] == nil {
		sa.shards[shardID] = createFunc()
	}
	return sa.shards[shardID]
}

// Commit commits all the shards in the staging area inside the given database
// transaction, so that the change set is applied atomically or not at all.
func (sa *StagingArea) Commit(dbTx DBTransaction) error {
	for _, shard := range sa.shards {
		if shard == nil {
			continue
		}
		err := shard.Commit(dbTx)
		if err != nil {
			return err
		}
	}

	sa.isCommitted = true
	return nil
}
