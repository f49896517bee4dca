package ghostdagdatastore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type ghostdagDataStagingShard struct {
	store    *ghostdagDataStore
	toAdd    map[externalapi.DomainHash]*model.BlockGHOSTDAGData
	toDelete map[externalapi.DomainHash]struct{}
}

func (gds *ghostdagDataStore) stagingShard(stagingArea *model.StagingArea) *ghostdagDataStagingShard {
	return stagingArea.GetOrCreateShard(gds.shardID, func() model.StagingShard {
		return &ghostdagDataStagingShard{
			store:    gds,
			toAdd:    make(map[externalapi.DomainHash]*model.BlockGHOSTDAGData),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*ghostdagDataStagingShard)
}

func (gdss *ghostdagDataStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, blockGHOSTDAGData := range gdss.toAdd {
		blockGhostdagDataBytes, err := binaryserialization.SerializeGHOSTDAGData(blockGHOSTDAGData)
		if err != nil {
			return err
		}
		hashCopy := hash
		err = dbTx.Put(gdss.store.hashAsKey(&hashCopy), blockGhostdagDataBytes)
		if err != nil {
			return err
		}
		gdss.store.cache.Add(hash, blockGHOSTDAGData)
	}
	for hash := range gdss.toDelete {
		hashCopy := hash
		err := dbTx.Delete(gdss.store.hashAsKey(&hashCopy))
		if err != nil {
			return err
		}
		gdss.store.cache.Remove(hash)
	}

	return nil
}

func (gdss *ghostdagDataStagingShard) isStaged() bool {
	return len(gdss.toAdd) != 0 || len(gdss.toDelete) != 0
}
