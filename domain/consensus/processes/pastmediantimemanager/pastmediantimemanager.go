package pastmediantimemanager

import (
	"sort"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// pastMedianTimeManager provides a method to resolve the
// past median time of a block
type pastMedianTimeManager struct {
	timestampDeviationTolerance int

	databaseContext model.DBReader

	ghostdagDataStore model.GHOSTDAGDataStore
	blockHeaderStore  model.BlockHeaderStore
}

// New instantiates a new PastMedianTimeManager
func New(timestampDeviationTolerance int,
	databaseContext model.DBReader,
	ghostdagDataStore model.GHOSTDAGDataStore,
	blockHeaderStore model.BlockHeaderStore) model.PastMedianTimeManager {

	return &pastMedianTimeManager{
		timestampDeviationTolerance: timestampDeviationTolerance,
		databaseContext:             databaseContext,
		ghostdagDataStore:           ghostdagDataStore,
		blockHeaderStore:            blockHeaderStore,
	}
}

// PastMedianTime returns the median of the timestamps of the window of
// blocks preceding blockHash on its selected parent chain. The window
// size is 2*timestampDeviationTolerance-1. The block's own timestamp is
// not part of the window.
func (pmtm *pastMedianTimeManager) PastMedianTime(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (int64, error) {

	windowSize := 2*pmtm.timestampDeviationTolerance - 1

	blockGHOSTDAGData, err := pmtm.ghostdagDataStore.Get(pmtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return 0, err
	}

	current := blockGHOSTDAGData.SelectedParent()
	if current == nil {
		// The genesis block has no past. Use its own timestamp.
		header, err := pmtm.blockHeaderStore.BlockHeader(pmtm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		return header.TimeInMilliseconds, nil
	}

	timestamps := make([]int64, 0, windowSize)
	for len(timestamps) < windowSize {
		header, err := pmtm.blockHeaderStore.BlockHeader(pmtm.databaseContext, stagingArea, current)
		if err != nil {
			return 0, err
		}
		timestamps = append(timestamps, header.TimeInMilliseconds)

		currentGHOSTDAGData, err := pmtm.ghostdagDataStore.Get(pmtm.databaseContext, stagingArea, current)
		if err != nil {
			return 0, err
		}
		if currentGHOSTDAGData.SelectedParent() == nil {
			break
		}
		current = currentGHOSTDAGData.SelectedParent()
	}

	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})
	return timestamps[len(timestamps)/2], nil
}
