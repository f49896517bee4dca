package model

// Store is a common interface for data stores: anything that stages changes
// through a StagingArea shard and commits them within a database transaction.
type Store interface {
	ShardID() StagingShardID
}
