package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// SyncManager exposes methods to support sync peers with the DAG state
type SyncManager interface {
	// GetAnticone returns the intersection of anticone(blockHash) and
	// past(contextHash), sorted
	// by ascending blue work (bottom-up topological order), capped at
	// maxBlocks (zero means no cap)
	GetAnticone(stagingArea *StagingArea, blockHash, contextHash *externalapi.DomainHash, maxBlocks uint64) ([]*externalapi.DomainHash, error)
}
