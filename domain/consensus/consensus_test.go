package consensus_test

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/testutils"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/pkg/errors"
)

const resultWaitTimeout = 30 * time.Second

func TestChainBlueScores(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestChainBlueScores")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	chainHashes, err := tc.AddChain(tc.Params.GenesisHash, 5)
	if err != nil {
		t.Fatalf("AddChain: %+v", err)
	}

	for i, blockHash := range chainHashes {
		blockInfo, err := tc.Consensus.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("GetBlockInfo: %+v", err)
		}
		if !blockInfo.Exists {
			t.Fatalf("block %d missing", i)
		}
		if blockInfo.BlockStatus != externalapi.StatusUTXOValid {
			t.Fatalf("chain block %d has status %s, expected UTXOValid", i, blockInfo.BlockStatus)
		}
		expectedBlueScore := uint64(i + 1)
		if blockInfo.BlueScore != expectedBlueScore {
			t.Fatalf("chain block %d has blue score %d, expected %d",
				i, blockInfo.BlueScore, expectedBlueScore)
		}
	}

	tips, err := tc.Consensus.Tips()
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	lastHash := chainHashes[len(chainHashes)-1]
	if len(tips) != 1 || !tips[0].Equal(lastHash) {
		t.Fatalf("expected the chain tip to be the only DAG tip, got %s", spew.Sdump(tips))
	}

	virtualInfo, err := tc.Consensus.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if !virtualInfo.SelectedParent.Equal(lastHash) {
		t.Fatalf("virtual selected parent is %s, expected %s", virtualInfo.SelectedParent, lastHash)
	}
	if virtualInfo.BlueScore != 6 {
		t.Fatalf("virtual blue score is %d, expected 6", virtualInfo.BlueScore)
	}

	// One coinbase output joined the virtual UTXO set per chain block.
	utxoSetSize, err := tc.Consensus.GetVirtualUTXOSetSize()
	if err != nil {
		t.Fatalf("GetVirtualUTXOSetSize: %+v", err)
	}
	if utxoSetSize != uint64(len(chainHashes)) {
		t.Fatalf("virtual UTXO set has %d entries, expected %d", utxoSetSize, len(chainHashes))
	}
}

func TestDiamondMerge(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestDiamondMerge")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	baseHash, err := tc.AddBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("AddBlock base: %+v", err)
	}
	leftHash, err := tc.AddBlock([]*externalapi.DomainHash{baseHash})
	if err != nil {
		t.Fatalf("AddBlock left: %+v", err)
	}
	rightHash, err := tc.AddBlock([]*externalapi.DomainHash{baseHash})
	if err != nil {
		t.Fatalf("AddBlock right: %+v", err)
	}
	mergeHash, err := tc.AddBlock([]*externalapi.DomainHash{leftHash, rightHash})
	if err != nil {
		t.Fatalf("AddBlock merge: %+v", err)
	}

	mergeInfo, err := tc.Consensus.GetBlockInfo(mergeHash)
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if mergeInfo.BlockStatus != externalapi.StatusUTXOValid {
		t.Fatalf("merge block has status %s, expected UTXOValid", mergeInfo.BlockStatus)
	}

	// Both sides of the diamond are well within any anticone of size K,
	// so both must be blue.
	if len(mergeInfo.MergeSetBlues) != 2 {
		t.Fatalf("expected 2 mergeset blues, got %s", spew.Sdump(mergeInfo.MergeSetBlues))
	}
	blues := map[externalapi.DomainHash]bool{}
	for _, blueHash := range mergeInfo.MergeSetBlues {
		blues[*blueHash] = true
	}
	if !blues[*leftHash] || !blues[*rightHash] {
		t.Fatalf("mergeset blues %s do not contain both diamond sides", spew.Sdump(mergeInfo.MergeSetBlues))
	}
	if len(mergeInfo.MergeSetReds) != 0 {
		t.Fatalf("unexpected mergeset reds: %s", spew.Sdump(mergeInfo.MergeSetReds))
	}

	// The parents tie on blue work, so the selected parent is decided by
	// the hash tie-break.
	expectedSelectedParent := leftHash
	if expectedSelectedParent.Less(rightHash) {
		expectedSelectedParent = rightHash
	}
	if !mergeInfo.SelectedParent.Equal(expectedSelectedParent) {
		t.Fatalf("selected parent is %s, expected the tie-break winner %s",
			mergeInfo.SelectedParent, expectedSelectedParent)
	}

	// The first mergeset blue is always the selected parent.
	if !mergeInfo.MergeSetBlues[0].Equal(mergeInfo.SelectedParent) {
		t.Fatalf("the first mergeset blue %s is not the selected parent %s",
			mergeInfo.MergeSetBlues[0], mergeInfo.SelectedParent)
	}

	if mergeInfo.BlueScore != 4 {
		t.Fatalf("merge block has blue score %d, expected 4", mergeInfo.BlueScore)
	}
}

func TestGhostdagRedBlocks(t *testing.T) {
	// With K at 1 a merge block may tolerate at most one block in the
	// anticone of each of its blues, so merging three parallel blocks
	// must turn exactly one of them red.
	params := dagconfig.SimnetParams
	params.K = 1

	tc, teardown, err := testutils.NewTestConsensusWithParams("TestGhostdagRedBlocks", &params)
	if err != nil {
		t.Fatalf("NewTestConsensusWithParams: %+v", err)
	}
	defer teardown()

	parallelHashes := make([]*externalapi.DomainHash, 3)
	for i := range parallelHashes {
		parallelHashes[i], err = tc.AddBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
		if err != nil {
			t.Fatalf("AddBlock parallel %d: %+v", i, err)
		}
	}
	mergeHash, err := tc.AddBlock(parallelHashes)
	if err != nil {
		t.Fatalf("AddBlock merge: %+v", err)
	}

	mergeInfo, err := tc.Consensus.GetBlockInfo(mergeHash)
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if len(mergeInfo.MergeSetBlues) != 2 || len(mergeInfo.MergeSetReds) != 1 {
		t.Fatalf("expected 2 blues and 1 red, got %s", spew.Sdump(mergeInfo))
	}
	if !mergeInfo.MergeSetBlues[0].Equal(mergeInfo.SelectedParent) {
		t.Fatalf("the first mergeset blue %s is not the selected parent %s",
			mergeInfo.MergeSetBlues[0], mergeInfo.SelectedParent)
	}

	// Only blues contribute to the blue score.
	if mergeInfo.BlueScore != 3 {
		t.Fatalf("merge block has blue score %d, expected 3", mergeInfo.BlueScore)
	}

	// The red block is still fully processed and queryable.
	for _, parallelHash := range parallelHashes {
		blockInfo, err := tc.Consensus.GetBlockInfo(parallelHash)
		if err != nil {
			t.Fatalf("GetBlockInfo: %+v", err)
		}
		if !blockInfo.Exists || blockInfo.BlockStatus == externalapi.StatusInvalid {
			t.Fatalf("parallel block unexpectedly unprocessed: %s", spew.Sdump(blockInfo))
		}
	}
}

func TestSubmitBlockOutOfOrder(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestSubmitBlockOutOfOrder")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	parentBlock := tc.BuildBlockOnBlocks(tc.Params.GenesisBlock)
	childBlock := tc.BuildBlockOnBlocks(parentBlock)

	// The child goes in first. It must park until its parent arrives and
	// fully processes.
	childResultChan := tc.Consensus.SubmitBlock(childBlock)

	select {
	case result := <-childResultChan:
		t.Fatalf("child resolved before its parent was submitted: %s", spew.Sdump(result))
	case <-time.After(100 * time.Millisecond):
	}

	err = tc.Consensus.ValidateAndInsertBlock(parentBlock)
	if err != nil {
		t.Fatalf("ValidateAndInsertBlock parent: %+v", err)
	}

	select {
	case result := <-childResultChan:
		if result.Err != nil {
			t.Fatalf("child failed: %+v", result.Err)
		}
		if result.Status != externalapi.StatusUTXOValid {
			t.Fatalf("child resolved with status %s, expected UTXOValid", result.Status)
		}
	case <-time.After(resultWaitTimeout):
		t.Fatalf("child was not released after its parent was processed")
	}

	tips, err := tc.Consensus.Tips()
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	childHash := consensushashing.BlockHash(childBlock)
	if len(tips) != 1 || !tips[0].Equal(childHash) {
		t.Fatalf("expected the child to be the only tip, got %s", spew.Sdump(tips))
	}
}

func TestDuplicateAndKnownInvalidSubmissions(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestDuplicateAndKnownInvalidSubmissions")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	block := tc.BuildBlockOnBlocks(tc.Params.GenesisBlock)
	err = tc.Consensus.ValidateAndInsertBlock(block)
	if err != nil {
		t.Fatalf("ValidateAndInsertBlock: %+v", err)
	}

	err = tc.Consensus.ValidateAndInsertBlock(block)
	if !errors.Is(err, ruleerrors.ErrDuplicateBlock) {
		t.Fatalf("expected ErrDuplicateBlock on resubmission, got %+v", err)
	}

	invalidBlock := tc.BuildBlockOnBlocks(tc.Params.GenesisBlock)
	invalidBlock.Header.HashMerkleRoot = *externalapi.NewDomainHashFromByteArray(
		&[externalapi.DomainHashSize]byte{0xde, 0xad})
	err = tc.Consensus.ValidateAndInsertBlock(invalidBlock)
	if !errors.Is(err, ruleerrors.ErrBadMerkleRoot) {
		t.Fatalf("expected ErrBadMerkleRoot, got %+v", err)
	}

	err = tc.Consensus.ValidateAndInsertBlock(invalidBlock)
	if !errors.Is(err, ruleerrors.ErrKnownInvalid) {
		t.Fatalf("expected ErrKnownInvalid on resubmission, got %+v", err)
	}
}

func TestInvalidAncestor(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestInvalidAncestor")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	invalidParent := tc.BuildBlockOnBlocks(tc.Params.GenesisBlock)
	invalidParent.Header.HashMerkleRoot = *externalapi.NewDomainHashFromByteArray(
		&[externalapi.DomainHashSize]byte{0xbd})
	child := tc.BuildBlockOnBlocks(invalidParent)

	err = tc.Consensus.ValidateAndInsertBlock(invalidParent)
	if !errors.Is(err, ruleerrors.ErrBadMerkleRoot) {
		t.Fatalf("expected ErrBadMerkleRoot, got %+v", err)
	}

	err = tc.Consensus.ValidateAndInsertBlock(child)
	if !errors.Is(err, ruleerrors.ErrInvalidAncestorBlock) {
		t.Fatalf("expected ErrInvalidAncestorBlock, got %+v", err)
	}

	// The child must be durably invalid as well.
	childInfo, err := tc.Consensus.GetBlockInfo(consensushashing.BlockHash(child))
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if !childInfo.Exists || childInfo.BlockStatus != externalapi.StatusInvalid {
		t.Fatalf("expected the child to be recorded invalid, got %s", spew.Sdump(childInfo))
	}
}

func TestInvalidAncestorWhilePending(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestInvalidAncestorWhilePending")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	invalidParent := tc.BuildBlockOnBlocks(tc.Params.GenesisBlock)
	invalidParent.Header.HashMerkleRoot = *externalapi.NewDomainHashFromByteArray(
		&[externalapi.DomainHashSize]byte{0xbd})
	child := tc.BuildBlockOnBlocks(invalidParent)

	// The child is submitted before its parent, so it parks, and then
	// fails together with the parent.
	childResultChan := tc.Consensus.SubmitBlock(child)
	parentResultChan := tc.Consensus.SubmitBlock(invalidParent)

	select {
	case result := <-parentResultChan:
		if !errors.Is(result.Err, ruleerrors.ErrBadMerkleRoot) {
			t.Fatalf("expected ErrBadMerkleRoot, got %+v", result.Err)
		}
	case <-time.After(resultWaitTimeout):
		t.Fatalf("parent submission did not resolve")
	}

	select {
	case result := <-childResultChan:
		if !errors.Is(result.Err, ruleerrors.ErrInvalidAncestorBlock) {
			t.Fatalf("expected ErrInvalidAncestorBlock, got %+v", result.Err)
		}
		if result.Status != externalapi.StatusInvalid {
			t.Fatalf("expected StatusInvalid, got %s", result.Status)
		}
	case <-time.After(resultWaitTimeout):
		t.Fatalf("child submission did not resolve")
	}
}

func TestProcessingCounters(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestProcessingCounters")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	before := tc.Consensus.Counters().Snapshot()

	currentHash := tc.Params.GenesisHash
	for i := 0; i < 10; i++ {
		currentHash, err = tc.AddBlock([]*externalapi.DomainHash{currentHash},
			newTestTransaction(t, byte(i), 0), newTestTransaction(t, byte(i), 1))
		if err != nil {
			t.Fatalf("AddBlock: %+v", err)
		}
	}

	window := tc.Consensus.Counters().Snapshot().Sub(before)
	if window.BlocksSubmitted != 10 {
		t.Fatalf("expected 10 blocks submitted, got %d", window.BlocksSubmitted)
	}
	if window.HeaderCounts != 10 || window.BodyCounts != 10 {
		t.Fatalf("expected 10 headers and 10 bodies, got %d and %d",
			window.HeaderCounts, window.BodyCounts)
	}
	// 1 coinbase + 2 extra transactions per block.
	if window.TxsCounts != 30 {
		t.Fatalf("expected 30 txs, got %d", window.TxsCounts)
	}
	if window.ChainBlockCounts != 10 {
		t.Fatalf("expected 10 chain blocks, got %d", window.ChainBlockCounts)
	}
	if window.MassCounts == 0 {
		t.Fatalf("expected nonzero processed mass")
	}
}

func TestGetAnticoneSortedByBlueWork(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestGetAnticoneSortedByBlueWork")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	chainHashes, err := tc.AddChain(tc.Params.GenesisHash, 3)
	if err != nil {
		t.Fatalf("AddChain: %+v", err)
	}
	sideHash, err := tc.AddBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("AddBlock side: %+v", err)
	}
	mergeHash, err := tc.AddBlock([]*externalapi.DomainHash{chainHashes[2], sideHash})
	if err != nil {
		t.Fatalf("AddBlock merge: %+v", err)
	}

	anticoneHashes, err := tc.Consensus.GetAnticone(sideHash, mergeHash, 0)
	if err != nil {
		t.Fatalf("GetAnticone: %+v", err)
	}
	if len(anticoneHashes) != 3 {
		t.Fatalf("expected an anticone of 3 blocks, got %s", spew.Sdump(anticoneHashes))
	}
	for i, anticoneHash := range anticoneHashes {
		if !anticoneHash.Equal(chainHashes[i]) {
			t.Fatalf("anticone not in ascending blue work order: position %d is %s, expected %s",
				i, anticoneHash, chainHashes[i])
		}
	}

	// A cap truncates the traversal rather than erroring out.
	cappedHashes, err := tc.Consensus.GetAnticone(sideHash, mergeHash, 2)
	if err != nil {
		t.Fatalf("GetAnticone capped: %+v", err)
	}
	if len(cappedHashes) != 2 {
		t.Fatalf("expected 2 capped anticone blocks, got %d", len(cappedHashes))
	}
}

func TestVirtualInfoMatchesTips(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestVirtualInfoMatchesTips")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	baseHash, err := tc.AddBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("AddBlock base: %+v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := tc.AddBlock([]*externalapi.DomainHash{baseHash})
		if err != nil {
			t.Fatalf("AddBlock tip %d: %+v", i, err)
		}
	}

	tips, err := tc.Consensus.Tips()
	if err != nil {
		t.Fatalf("Tips: %+v", err)
	}
	if len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %s", spew.Sdump(tips))
	}

	virtualInfo, err := tc.Consensus.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if len(virtualInfo.ParentHashes) != len(tips) {
		t.Fatalf("virtual has %d parents, expected %d", len(virtualInfo.ParentHashes), len(tips))
	}
	tipSet := map[externalapi.DomainHash]bool{}
	for _, tipHash := range tips {
		tipSet[*tipHash] = true
	}
	for _, parentHash := range virtualInfo.ParentHashes {
		if !tipSet[*parentHash] {
			t.Fatalf("virtual parent %s is not a DAG tip", parentHash)
		}
	}
	if virtualInfo.UTXOCommitment == nil {
		t.Fatalf("virtual UTXO commitment missing")
	}
}

func TestPruningPointAdvancesAndPrunes(t *testing.T) {
	params := dagconfig.SimnetParams
	params.K = 3
	params.MergeSetSizeLimit = 10
	params.FinalityDuration = 20 * time.Millisecond

	tc, teardown, err := testutils.NewTestConsensusWithParams("TestPruningPointAdvancesAndPrunes", &params)
	if err != nil {
		t.Fatalf("NewTestConsensusWithParams: %+v", err)
	}
	defer teardown()

	pruningPointInfo, err := tc.Consensus.PruningPoint()
	if err != nil {
		t.Fatalf("PruningPoint: %+v", err)
	}
	if pruningPointInfo != nil {
		t.Fatalf("fresh DAG unexpectedly has a pruning point: %s", spew.Sdump(pruningPointInfo))
	}

	chainLength := int(params.PruningDepth()) + 50
	chainHashes, err := tc.AddChain(tc.Params.GenesisHash, chainLength)
	if err != nil {
		t.Fatalf("AddChain: %+v", err)
	}

	pruningPointInfo, err = tc.Consensus.PruningPoint()
	if err != nil {
		t.Fatalf("PruningPoint: %+v", err)
	}
	if pruningPointInfo == nil {
		t.Fatalf("pruning point did not advance after %d blocks", chainLength)
	}
	if pruningPointInfo.BlueScore == 0 {
		t.Fatalf("pruning point stuck at blue score 0")
	}

	// Blocks below the pruning point are gone entirely.
	earlyInfo, err := tc.Consensus.GetBlockInfo(chainHashes[0])
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if earlyInfo.Exists {
		t.Fatalf("block below the pruning point was not pruned: %s", spew.Sdump(earlyInfo))
	}

	// Advancing the chain must never move the pruning point backward.
	previousBlueScore := pruningPointInfo.BlueScore
	_, err = tc.AddChain(chainHashes[len(chainHashes)-1], 20)
	if err != nil {
		t.Fatalf("AddChain extension: %+v", err)
	}
	pruningPointInfo, err = tc.Consensus.PruningPoint()
	if err != nil {
		t.Fatalf("PruningPoint: %+v", err)
	}
	if pruningPointInfo.BlueScore < previousBlueScore {
		t.Fatalf("pruning point moved backward from %d to %d",
			previousBlueScore, pruningPointInfo.BlueScore)
	}
}

// newTestTransaction builds a unique no-op transaction for padding blocks
func newTestTransaction(t *testing.T, tag byte, index byte) *externalapi.DomainTransaction {
	t.Helper()
	payload := make([]byte, 16)
	payload[8] = tag
	payload[9] = index
	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{},
		Payload: payload,
	}
}

// newSpendingTransaction builds a transaction that spends the given outpoint
// into a single fresh output
func newSpendingTransaction(transactionID *externalapi.DomainTransactionID,
	index uint32, value uint64) *externalapi.DomainTransaction {

	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: externalapi.DomainOutpoint{
				TransactionID: *transactionID,
				Index:         index,
			},
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           value,
			ScriptPublicKey: []byte{0x51},
		}},
	}
}

func TestReorgUnwindsChainBlocks(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestReorgUnwindsChainBlocks")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	baselineUTXOSize, err := tc.Consensus.GetVirtualUTXOSetSize()
	if err != nil {
		t.Fatalf("GetVirtualUTXOSetSize: %+v", err)
	}

	// Chain A: two blocks, the second spending the first one's coinbase.
	blockA1, err := tc.BuildBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}
	err = tc.Consensus.ValidateAndInsertBlock(blockA1)
	if err != nil {
		t.Fatalf("ValidateAndInsertBlock: %+v", err)
	}
	blockA1Hash := consensushashing.BlockHash(blockA1)

	coinbaseA1ID := consensushashing.TransactionID(blockA1.Transactions[0])
	spendTx := newSpendingTransaction(coinbaseA1ID, 0, 1000)
	blockA2Hash, err := tc.AddBlock([]*externalapi.DomainHash{blockA1Hash}, spendTx)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}

	virtualInfo, err := tc.Consensus.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if !virtualInfo.SelectedParent.Equal(blockA2Hash) {
		t.Fatalf("virtual selected parent is %s, expected the heavier chain tip %s",
			virtualInfo.SelectedParent, blockA2Hash)
	}
	utxoSizeAfterChainA, err := tc.Consensus.GetVirtualUTXOSetSize()
	if err != nil {
		t.Fatalf("GetVirtualUTXOSetSize: %+v", err)
	}
	if utxoSizeAfterChainA != baselineUTXOSize+2 {
		t.Fatalf("virtual UTXO set has %d entries after chain A, expected %d",
			utxoSizeAfterChainA, baselineUTXOSize+2)
	}

	// Chain B: a longer parallel chain from the genesis that outweighs
	// chain A and takes over the selected chain.
	chainBHashes, err := tc.AddChain(tc.Params.GenesisHash, 3)
	if err != nil {
		t.Fatalf("AddChain: %+v", err)
	}
	chainBTip := chainBHashes[len(chainBHashes)-1]

	virtualInfo, err = tc.Consensus.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if !virtualInfo.SelectedParent.Equal(chainBTip) {
		t.Fatalf("virtual selected parent is %s after the reorg, expected %s",
			virtualInfo.SelectedParent, chainBTip)
	}

	// The unwound chain A blocks go back to pending verification.
	for _, blockHash := range []*externalapi.DomainHash{blockA1Hash, blockA2Hash} {
		blockInfo, err := tc.Consensus.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("GetBlockInfo: %+v", err)
		}
		if blockInfo.BlockStatus != externalapi.StatusUTXOPendingVerification {
			t.Fatalf("unwound chain block %s has status %s, expected UTXOPendingVerification",
				blockHash, blockInfo.BlockStatus)
		}
	}
	for _, blockHash := range chainBHashes {
		blockInfo, err := tc.Consensus.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("GetBlockInfo: %+v", err)
		}
		if blockInfo.BlockStatus != externalapi.StatusUTXOValid {
			t.Fatalf("new chain block %s has status %s, expected UTXOValid",
				blockHash, blockInfo.BlockStatus)
		}
	}

	// Chain A's coinbases and the spend were unwound, so only chain B's
	// coinbase outputs remain on top of the baseline.
	utxoSizeAfterReorg, err := tc.Consensus.GetVirtualUTXOSetSize()
	if err != nil {
		t.Fatalf("GetVirtualUTXOSetSize: %+v", err)
	}
	if utxoSizeAfterReorg != baselineUTXOSize+uint64(len(chainBHashes)) {
		t.Fatalf("virtual UTXO set has %d entries after the reorg, expected %d",
			utxoSizeAfterReorg, baselineUTXOSize+uint64(len(chainBHashes)))
	}
}

func TestDisqualifiedChainBlockResolution(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestDisqualifiedChainBlockResolution")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	// A block spending an outpoint that is not in the virtual UTXO set
	// passes body validation but is disqualified at the virtual stage.
	bogusID := externalapi.DomainTransactionID(
		*externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xaa}))
	missingOutpointTx := newSpendingTransaction(&bogusID, 0, 500)
	disqualifiedHash, err := tc.AddBlock(
		[]*externalapi.DomainHash{tc.Params.GenesisHash}, missingOutpointTx)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}

	blockInfo, err := tc.Consensus.GetBlockInfo(disqualifiedHash)
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if blockInfo.BlockStatus != externalapi.StatusDisqualifiedFromChain {
		t.Fatalf("block spending a missing outpoint has status %s, expected DisqualifiedFromChain",
			blockInfo.BlockStatus)
	}

	// A sibling takes over the selected chain, since disqualified tips are
	// not eligible virtual parents. The disqualified block leaves the
	// selected chain and goes back to pending verification.
	sibling, err := tc.BuildBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}
	err = tc.Consensus.ValidateAndInsertBlock(sibling)
	if err != nil {
		t.Fatalf("ValidateAndInsertBlock: %+v", err)
	}
	siblingHash := consensushashing.BlockHash(sibling)

	virtualInfo, err := tc.Consensus.GetVirtualInfo()
	if err != nil {
		t.Fatalf("GetVirtualInfo: %+v", err)
	}
	if !virtualInfo.SelectedParent.Equal(siblingHash) {
		t.Fatalf("virtual selected parent is %s, expected the qualified sibling %s",
			virtualInfo.SelectedParent, siblingHash)
	}

	blockInfo, err = tc.Consensus.GetBlockInfo(disqualifiedHash)
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if blockInfo.BlockStatus != externalapi.StatusUTXOPendingVerification {
		t.Fatalf("demoted block has status %s, expected UTXOPendingVerification",
			blockInfo.BlockStatus)
	}

	// A double spend within one block disqualifies it the same way.
	siblingCoinbaseID := consensushashing.TransactionID(sibling.Transactions[0])
	doubleSpendHash, err := tc.AddBlock([]*externalapi.DomainHash{siblingHash},
		newSpendingTransaction(siblingCoinbaseID, 0, 600),
		newSpendingTransaction(siblingCoinbaseID, 0, 700))
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}

	blockInfo, err = tc.Consensus.GetBlockInfo(doubleSpendHash)
	if err != nil {
		t.Fatalf("GetBlockInfo: %+v", err)
	}
	if blockInfo.BlockStatus != externalapi.StatusDisqualifiedFromChain {
		t.Fatalf("double spending block has status %s, expected DisqualifiedFromChain",
			blockInfo.BlockStatus)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestSubmitAfterStop")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	block, err := tc.BuildBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("BuildBlock: %+v", err)
	}

	tc.Consensus.Stop()

	select {
	case result := <-tc.Consensus.SubmitBlock(block):
		if !errors.Is(result.Err, consensus.ErrStopped) {
			t.Fatalf("expected ErrStopped for a submission after Stop, got %+v", result.Err)
		}
	case <-time.After(resultWaitTimeout):
		t.Fatalf("submission after Stop did not resolve")
	}

	// The deferred teardown stops the consensus a second time, which must
	// be a no-op.
}
