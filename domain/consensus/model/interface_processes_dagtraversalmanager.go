package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// DAGTraversalManager exposes methods for traversing blocks
// in the DAG
type DAGTraversalManager interface {
	BlockAtDepth(stagingArea *StagingArea, highHash *externalapi.DomainHash, depth uint64) (*externalapi.DomainHash, error)
	CalculateChainPath(stagingArea *StagingArea, fromBlockHash, toBlockHash *externalapi.DomainHash) (*externalapi.SelectedChainPath, error)

	// AnticoneFromContext returns the intersection of anticone(blockHash)
	// and past(contextHash), capped at maxBlocks (zero means no cap)
	AnticoneFromContext(stagingArea *StagingArea, blockHash, contextHash *externalapi.DomainHash, maxBlocks uint64) ([]*externalapi.DomainHash, error)

	NewUpHeap(stagingArea *StagingArea) BlockHeap
	NewDownHeap(stagingArea *StagingArea) BlockHeap
}
