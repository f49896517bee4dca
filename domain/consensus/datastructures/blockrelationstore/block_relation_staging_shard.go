package blockrelationstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type blockRelationStagingShard struct {
	store    *blockRelationStore
	toAdd    map[externalapi.DomainHash]*model.BlockRelations
	toDelete map[externalapi.DomainHash]struct{}
}

func (brs *blockRelationStore) stagingShard(stagingArea *model.StagingArea) *blockRelationStagingShard {
	return stagingArea.GetOrCreateShard(brs.shardID, func() model.StagingShard {
		return &blockRelationStagingShard{
			store:    brs,
			toAdd:    make(map[externalapi.DomainHash]*model.BlockRelations),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockRelationStagingShard)
}

func (brss *blockRelationStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, blockRelations := range brss.toAdd {
		blockRelationBytes, err := binaryserialization.SerializeBlockRelations(blockRelations)
		if err != nil {
			return err
		}
		hashCopy := hash
		err = dbTx.Put(brss.store.hashAsKey(&hashCopy), blockRelationBytes)
		if err != nil {
			return err
		}
		brss.store.cache.Add(hash, blockRelations)
	}
	for hash := range brss.toDelete {
		hashCopy := hash
		err := dbTx.Delete(brss.store.hashAsKey(&hashCopy))
		if err != nil {
			return err
		}
		brss.store.cache.Remove(hash)
	}

	return nil
}

func (brss *blockRelationStagingShard) isStaged() bool {
	return len(brss.toAdd) != 0 || len(brss.toDelete) != 0
}
