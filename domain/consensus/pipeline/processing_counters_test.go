package pipeline

import (
	"sync"
	"testing"
)

func TestProcessingCountersSnapshotAndSub(t *testing.T) {
	counters := &ProcessingCounters{}

	counters.AddBlocksSubmitted(3)
	counters.AddHeaderCounts(2)
	counters.AddDepCounts(2)
	counters.AddBodyCounts(1)
	counters.AddTxsCounts(7)
	counters.AddChainBlockCounts(1)
	counters.AddMassCounts(1000)

	first := counters.Snapshot()
	if first.BlocksSubmitted != 3 || first.TxsCounts != 7 || first.MassCounts != 1000 {
		t.Fatalf("unexpected snapshot: %+v", first)
	}

	counters.AddBlocksSubmitted(2)
	counters.AddTxsCounts(3)

	window := counters.Snapshot().Sub(first)
	if window.BlocksSubmitted != 2 {
		t.Fatalf("expected 2 blocks submitted in the window, got %d", window.BlocksSubmitted)
	}
	if window.TxsCounts != 3 {
		t.Fatalf("expected 3 txs in the window, got %d", window.TxsCounts)
	}
	if window.HeaderCounts != 0 || window.MassCounts != 0 {
		t.Fatalf("untouched counters leaked into the window: %+v", window)
	}
}

func TestProcessingCountersConcurrentAdds(t *testing.T) {
	counters := &ProcessingCounters{}

	const goroutines = 16
	const addsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerGoroutine; j++ {
				counters.AddBlocksSubmitted(1)
			}
		}()
	}
	wg.Wait()

	snapshot := counters.Snapshot()
	if snapshot.BlocksSubmitted != goroutines*addsPerGoroutine {
		t.Fatalf("expected %d blocks submitted, got %d",
			goroutines*addsPerGoroutine, snapshot.BlocksSubmitted)
	}
}
