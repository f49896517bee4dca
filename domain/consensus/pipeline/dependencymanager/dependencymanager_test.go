package dependencymanager

import (
	"testing"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

func testHash(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

func testBlock(parentHashes ...*externalapi.DomainHash) *externalapi.DomainBlock {
	parents := []externalapi.BlockLevelParents{}
	if len(parentHashes) > 0 {
		parents = []externalapi.BlockLevelParents{parentHashes}
	}
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Parents: parents,
		},
	}
}

func alwaysSatisfied(*externalapi.DomainHash) (bool, error) {
	return true, nil
}

func neverSatisfied(*externalapi.DomainHash) (bool, error) {
	return false, nil
}

func TestBlockWithSatisfiedParentsIsNotPending(t *testing.T) {
	dm := New()

	blockHash := testHash(1)
	pending, _, err := dm.BeginProcessing(blockHash, testBlock(testHash(2)), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing: %+v", err)
	}
	if pending {
		t.Fatalf("block with satisfied parents unexpectedly parked")
	}
	if !dm.IsProcessing(blockHash) {
		t.Fatalf("block expected to be registered as in-flight")
	}
	if dm.IsPending(blockHash) {
		t.Fatalf("non-parked block reported as pending")
	}
}

func TestReleaseExactlyOnce(t *testing.T) {
	dm := New()

	parentHash := testHash(1)
	childHash := testHash(2)

	pending, _, err := dm.BeginProcessing(parentHash, testBlock(), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing parent: %+v", err)
	}
	if pending {
		t.Fatalf("parentless block unexpectedly parked")
	}

	childChan := make(chan externalapi.BlockProcessResult, 1)
	pending, _, err = dm.BeginProcessing(childHash, testBlock(parentHash), childChan, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing child: %+v", err)
	}
	if !pending {
		t.Fatalf("child of an in-flight parent expected to park")
	}
	if dm.PendingCount() != 1 {
		t.Fatalf("expected 1 pending block, got %d", dm.PendingCount())
	}

	released, invalidated := dm.BlockProcessed(parentHash, nil)
	if len(invalidated) != 0 {
		t.Fatalf("successful parent unexpectedly invalidated %d blocks", len(invalidated))
	}
	if len(released) != 1 || released[0].ResultChan != childChan {
		t.Fatalf("expected exactly the parked child to be released, got %d blocks", len(released))
	}

	// A repeated completion must not release the child again.
	released, _ = dm.BlockProcessed(parentHash, nil)
	if len(released) != 0 {
		t.Fatalf("child released twice")
	}
	if dm.PendingCount() != 0 {
		t.Fatalf("expected no pending blocks, got %d", dm.PendingCount())
	}
}

func TestReleaseWaitsForAllParents(t *testing.T) {
	dm := New()

	parentA := testHash(1)
	parentB := testHash(2)
	childHash := testHash(3)

	for _, parentHash := range []*externalapi.DomainHash{parentA, parentB} {
		_, _, err := dm.BeginProcessing(parentHash, testBlock(), nil, alwaysSatisfied)
		if err != nil {
			t.Fatalf("BeginProcessing parent: %+v", err)
		}
	}

	pending, _, err := dm.BeginProcessing(childHash, testBlock(parentA, parentB), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing child: %+v", err)
	}
	if !pending {
		t.Fatalf("child of two in-flight parents expected to park")
	}

	released, _ := dm.BlockProcessed(parentA, nil)
	if len(released) != 0 {
		t.Fatalf("child released with a parent still in-flight")
	}
	released, _ = dm.BlockProcessed(parentB, nil)
	if len(released) != 1 {
		t.Fatalf("expected the child to be released after its last parent, got %d blocks", len(released))
	}
}

func TestTransitiveInvalidation(t *testing.T) {
	dm := New()

	parentHash := testHash(1)
	childHash := testHash(2)
	grandchildHash := testHash(3)

	_, _, err := dm.BeginProcessing(parentHash, testBlock(), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing parent: %+v", err)
	}

	childChan := make(chan externalapi.BlockProcessResult, 1)
	_, _, err = dm.BeginProcessing(childHash, testBlock(parentHash), childChan, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing child: %+v", err)
	}
	grandchildChan := make(chan externalapi.BlockProcessResult, 1)
	_, _, err = dm.BeginProcessing(grandchildHash, testBlock(childHash), grandchildChan, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing grandchild: %+v", err)
	}

	released, invalidated := dm.BlockProcessed(parentHash,
		ruleerrors.Errorf(ruleerrors.ErrBadMerkleRoot, "bad merkle root"))
	if len(released) != 0 {
		t.Fatalf("failed parent unexpectedly released %d blocks", len(released))
	}
	if len(invalidated) != 2 {
		t.Fatalf("expected 2 invalidated blocks, got %d", len(invalidated))
	}

	for _, resultChan := range []chan externalapi.BlockProcessResult{childChan, grandchildChan} {
		select {
		case result := <-resultChan:
			if !errors.Is(result.Err, ruleerrors.ErrInvalidAncestorBlock) {
				t.Fatalf("expected ErrInvalidAncestorBlock, got %+v", result.Err)
			}
			if result.Status != externalapi.StatusInvalid {
				t.Fatalf("expected StatusInvalid, got %s", result.Status)
			}
		default:
			t.Fatalf("dependent's result channel was not resolved")
		}
	}

	for _, blockHash := range []*externalapi.DomainHash{childHash, grandchildHash} {
		if dm.IsProcessing(blockHash) {
			t.Fatalf("invalidated block %s still registered as in-flight", blockHash)
		}
	}
}

func TestRepeatedRegistrationIsReportedInFlight(t *testing.T) {
	dm := New()

	blockHash := testHash(1)
	_, alreadyInFlight, err := dm.BeginProcessing(blockHash, testBlock(), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing: %+v", err)
	}
	if alreadyInFlight {
		t.Fatalf("first registration unexpectedly reported in-flight")
	}

	_, alreadyInFlight, err = dm.BeginProcessing(blockHash, testBlock(), nil, alwaysSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing again: %+v", err)
	}
	if !alreadyInFlight {
		t.Fatalf("second registration of an in-flight block was admitted")
	}

	// The repeated registration must not have re-registered the block, so
	// one completion fully clears it.
	dm.BlockProcessed(blockHash, nil)
	if dm.IsProcessing(blockHash) {
		t.Fatalf("block still registered as in-flight after completion")
	}

	// A parked block is in-flight too.
	parkedHash := testHash(2)
	pending, _, err := dm.BeginProcessing(parkedHash, testBlock(testHash(3)), nil, neverSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing parked: %+v", err)
	}
	if !pending {
		t.Fatalf("block with an unsatisfied parent expected to park")
	}
	_, alreadyInFlight, err = dm.BeginProcessing(parkedHash, testBlock(testHash(3)), nil, neverSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing parked again: %+v", err)
	}
	if !alreadyInFlight {
		t.Fatalf("second registration of a parked block was admitted")
	}
}

func TestBeginProcessingPropagatesCallbackError(t *testing.T) {
	dm := New()

	blockHash := testHash(1)
	callbackErr := errors.New("status read failed")
	_, _, err := dm.BeginProcessing(blockHash, testBlock(testHash(2)), nil,
		func(*externalapi.DomainHash) (bool, error) {
			return false, callbackErr
		})
	if !errors.Is(err, callbackErr) {
		t.Fatalf("expected the callback error, got %+v", err)
	}
	if dm.IsProcessing(blockHash) {
		t.Fatalf("failed registration left the block marked as in-flight")
	}
}

func TestParkedBlockCountsAsProcessing(t *testing.T) {
	dm := New()

	parentHash := testHash(1)
	childHash := testHash(2)

	pending, _, err := dm.BeginProcessing(childHash, testBlock(parentHash), nil, neverSatisfied)
	if err != nil {
		t.Fatalf("BeginProcessing: %+v", err)
	}
	if !pending {
		t.Fatalf("block with an unsatisfied parent expected to park")
	}
	if !dm.IsProcessing(childHash) {
		t.Fatalf("parked block must count as in-flight")
	}
	if !dm.IsPending(childHash) {
		t.Fatalf("parked block must be reported pending")
	}
}
