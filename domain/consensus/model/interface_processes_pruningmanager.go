package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// PruningManager resolves and manages the current pruning point
type PruningManager interface {
	// UpdatePruningPointByVirtual advances the pruning point if the virtual
	// selected chain moved deep enough past it. The pruning point never
	// moves backward. Returns whether the pruning point moved.
	UpdatePruningPointByVirtual(stagingArea *StagingArea) (bool, error)

	// PruneAllBlocksBelow deletes data of blocks below the pruning point
	// that are not reachable from any retained block
	PruneAllBlocksBelow(stagingArea *StagingArea) error

	PruningPointInfo(stagingArea *StagingArea) (*externalapi.PruningPointInfo, error)
}
