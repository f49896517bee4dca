package blockstatusstore

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type blockStatusStagingShard struct {
	store    *blockStatusStore
	toAdd    map[externalapi.DomainHash]externalapi.BlockStatus
	toDelete map[externalapi.DomainHash]struct{}
}

func (bss *blockStatusStore) stagingShard(stagingArea *model.StagingArea) *blockStatusStagingShard {
	return stagingArea.GetOrCreateShard(bss.shardID, func() model.StagingShard {
		return &blockStatusStagingShard{
			store:    bss,
			toAdd:    make(map[externalapi.DomainHash]externalapi.BlockStatus),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockStatusStagingShard)
}

func (bsss *blockStatusStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, status := range bsss.toAdd {
		hashCopy := hash
		err := dbTx.Put(bsss.store.hashAsKey(&hashCopy), []byte{byte(status)})
		if err != nil {
			return err
		}
		bsss.store.cache.Add(hash, status)
	}
	for hash := range bsss.toDelete {
		hashCopy := hash
		err := dbTx.Delete(bsss.store.hashAsKey(&hashCopy))
		if err != nil {
			return err
		}
		bsss.store.cache.Remove(hash)
	}

	return nil
}

func (bsss *blockStatusStagingShard) isStaged() bool {
	return len(bsss.toAdd) != 0 || len(bsss.toDelete) != 0
}
