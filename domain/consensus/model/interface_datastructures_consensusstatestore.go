package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// ConsensusStateStore represents a store for the current consensus state:
// the DAG tips, the virtual UTXO set and its multiset commitment.
type ConsensusStateStore interface {
	Store
	StageTips(stagingArea *StagingArea, tipHashes []*externalapi.DomainHash)
	Tips(stagingArea *StagingArea, dbContext DBReader) ([]*externalapi.DomainHash, error)

	StageVirtualUTXODiff(stagingArea *StagingArea, virtualUTXODiff UTXODiff)
	UTXOByOutpoint(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)
	HasUTXOByOutpoint(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (bool, error)
	VirtualUTXOSetCount(dbContext DBReader) (uint64, error)

	StageVirtualMultiset(stagingArea *StagingArea, multiset Multiset)
	VirtualMultiset(dbContext DBReader, stagingArea *StagingArea) (Multiset, error)
}
