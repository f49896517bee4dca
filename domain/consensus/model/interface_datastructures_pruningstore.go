package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// PruningStore represents a store for the current pruning state
type PruningStore interface {
	Store
	StagePruningPoint(stagingArea *StagingArea, pruningPointBlockHash *externalapi.DomainHash, pruningPointBlueScore uint64)
	IsStaged(stagingArea *StagingArea) bool
	PruningPoint(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)
	PruningPointBlueScore(dbContext DBReader, stagingArea *StagingArea) (uint64, error)
	HasPruningPoint(dbContext DBReader, stagingArea *StagingArea) (bool, error)
}
