package consensus

import (
	"os"
	"sync"
	"testing"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/merkle"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/dagcore/dagd/infrastructure/db/database/ldb"
)

// TestConcurrentSiblingsKeepAllChildrenEdges submits many children of the
// genesis block at once and verifies that the genesis relations record every
// one of them. Each header commit rewrites its parents' children lists, so
// concurrent siblings must not overwrite each other's edges.
func TestConcurrentSiblingsKeepAllChildrenEdges(t *testing.T) {
	databaseDir, err := os.MkdirTemp("", "TestConcurrentSiblingsKeepAllChildrenEdges")
	if err != nil {
		t.Fatalf("MkdirTemp: %+v", err)
	}
	defer func() {
		err := os.RemoveAll(databaseDir)
		if err != nil {
			t.Fatalf("RemoveAll: %+v", err)
		}
	}()

	db, err := ldb.NewLevelDB(databaseDir, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer func() {
		err := db.Close()
		if err != nil {
			t.Fatalf("Close: %+v", err)
		}
	}()

	params := dagconfig.SimnetParams
	consensusInterface, err := NewFactory().NewConsensus(&params, db)
	if err != nil {
		t.Fatalf("NewConsensus: %+v", err)
	}
	c := consensusInterface.(*consensus)
	// More workers than this machine may have CPUs, so sibling headers
	// actually interleave.
	c.workerCount = 8
	c.Start()
	defer c.Stop()
	err = c.Init()
	if err != nil {
		t.Fatalf("Init: %+v", err)
	}

	const siblingCount = 64
	genesisTime := params.GenesisBlock.Header.TimeInMilliseconds

	siblings := make([]*externalapi.DomainBlock, siblingCount)
	for i := range siblings {
		coinbase := &externalapi.DomainTransaction{
			Version: 0,
			Inputs:  []*externalapi.DomainTransactionInput{},
			Outputs: []*externalapi.DomainTransactionOutput{},
			Payload: []byte{byte(i), byte(i >> 8), 0x01},
		}
		transactions := []*externalapi.DomainTransaction{coinbase}
		siblings[i] = &externalapi.DomainBlock{
			Header: &externalapi.DomainBlockHeader{
				Version:            constants.BlockVersion,
				Parents:            []externalapi.BlockLevelParents{{params.GenesisHash}},
				HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(transactions),
				TimeInMilliseconds: genesisTime + 1,
				Bits:               params.PowLimitBits,
				Nonce:              uint64(i) + 1,
			},
			Transactions: transactions,
		}
	}

	errChan := make(chan error, siblingCount)
	var wg sync.WaitGroup
	wg.Add(siblingCount)
	for _, sibling := range siblings {
		sibling := sibling
		go func() {
			defer wg.Done()
			errChan <- c.ValidateAndInsertBlock(sibling)
		}()
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			t.Fatalf("ValidateAndInsertBlock: %+v", err)
		}
	}

	genesisRelations, err := c.blockRelationStore.BlockRelation(
		c.databaseContext, model.NewStagingArea(), params.GenesisHash)
	if err != nil {
		t.Fatalf("BlockRelation: %+v", err)
	}

	children := make(map[externalapi.DomainHash]struct{})
	for _, child := range genesisRelations.Children {
		if child.Equal(model.VirtualBlockHash) {
			continue
		}
		children[*child] = struct{}{}
	}
	if len(children) != siblingCount {
		t.Fatalf("genesis has %d recorded children, expected %d", len(children), siblingCount)
	}
}
