package pruningprocessor

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PRNP")

// PruningProcessor is the pipeline stage that advances the pruning point
// after virtual updates and discards data below it. It runs within the
// virtual processor's staging area so that pruning commits atomically with
// the virtual advance that triggered it.
type PruningProcessor struct {
	pruningManager model.PruningManager
}

// New instantiates a new PruningProcessor
func New(pruningManager model.PruningManager) *PruningProcessor {
	return &PruningProcessor{
		pruningManager: pruningManager,
	}
}

// UpdatePruning advances the pruning point if the virtual selected chain
// moved deep enough past it, and prunes unreachable blocks below the new
// pruning point
func (pp *PruningProcessor) UpdatePruning(stagingArea *model.StagingArea) error {
	pruningPointMoved, err := pp.pruningManager.UpdatePruningPointByVirtual(stagingArea)
	if err != nil {
		return err
	}
	if !pruningPointMoved {
		return nil
	}

	onEnd := logger.LogAndMeasureExecutionTime(log, "PruneAllBlocksBelow")
	defer onEnd()
	return pp.pruningManager.PruneAllBlocksBelow(stagingArea)
}
