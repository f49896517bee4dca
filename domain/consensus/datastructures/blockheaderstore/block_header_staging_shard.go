package blockheaderstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type blockHeaderStagingShard struct {
	store    *blockHeaderStore
	toAdd    map[externalapi.DomainHash]*externalapi.DomainBlockHeader
	toDelete map[externalapi.DomainHash]struct{}
}

func (bhs *blockHeaderStore) stagingShard(stagingArea *model.StagingArea) *blockHeaderStagingShard {
	return stagingArea.GetOrCreateShard(bhs.shardID, func() model.StagingShard {
		return &blockHeaderStagingShard{
			store:    bhs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockHeaderStagingShard)
}

func (bhss *blockHeaderStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, header := range bhss.toAdd {
		headerBytes, err := binaryserialization.SerializeHeader(header)
		if err != nil {
			return err
		}
		hashCopy := hash
		err = dbTx.Put(bhss.store.hashAsKey(&hashCopy), headerBytes)
		if err != nil {
			return err
		}
		bhss.store.cache.Add(hash, header)
	}
	for hash := range bhss.toDelete {
		hashCopy := hash
		err := dbTx.Delete(bhss.store.hashAsKey(&hashCopy))
		if err != nil {
			return err
		}
		bhss.store.cache.Remove(hash)
	}

	err := bhss.commitCount(dbTx)
	if err != nil {
		return err
	}

	return nil
}

func (bhss *blockHeaderStagingShard) commitCount(dbTx model.DBTransaction) error {
	count := bhss.store.count(bhss)
	countBytes := binaryserialization.SerializeUint64(count)
	err := dbTx.Put(bhss.store.countKey, countBytes)
	if err != nil {
		return err
	}
	bhss.store.countCached = count
	return nil
}

func (bhss *blockHeaderStagingShard) isStaged() bool {
	return len(bhss.toAdd) != 0 || len(bhss.toDelete) != 0
}
