package pipeline

import "sync/atomic"

// ProcessingCounters tracks the amount of work the block-acceptance
// pipeline has performed since startup. All fields are monotonic and
// lock-free; they are sampled for operational visibility and are never
// used for correctness.
type ProcessingCounters struct {
	blocksSubmitted  uint64
	headerCounts     uint64
	depCounts        uint64
	bodyCounts       uint64
	txsCounts        uint64
	chainBlockCounts uint64
	massCounts       uint64
}

// ProcessingCountersSnapshot is a point-in-time copy of ProcessingCounters.
// The difference of two snapshots yields a rate window; callers must diff
// in chronological order so the difference never underflows.
type ProcessingCountersSnapshot struct {
	BlocksSubmitted  uint64
	HeaderCounts     uint64
	DepCounts        uint64
	BodyCounts       uint64
	TxsCounts        uint64
	ChainBlockCounts uint64
	MassCounts       uint64
}

// AddBlocksSubmitted increments the amount of blocks submitted to the pipeline
func (pc *ProcessingCounters) AddBlocksSubmitted(amount uint64) {
	atomic.AddUint64(&pc.blocksSubmitted, amount)
}

// AddHeaderCounts increments the amount of processed headers
func (pc *ProcessingCounters) AddHeaderCounts(amount uint64) {
	atomic.AddUint64(&pc.headerCounts, amount)
}

// AddDepCounts increments the amount of resolved block dependencies
func (pc *ProcessingCounters) AddDepCounts(amount uint64) {
	atomic.AddUint64(&pc.depCounts, amount)
}

// AddBodyCounts increments the amount of processed block bodies
func (pc *ProcessingCounters) AddBodyCounts(amount uint64) {
	atomic.AddUint64(&pc.bodyCounts, amount)
}

// AddTxsCounts increments the amount of processed transactions
func (pc *ProcessingCounters) AddTxsCounts(amount uint64) {
	atomic.AddUint64(&pc.txsCounts, amount)
}

// AddChainBlockCounts increments the amount of blocks that joined the
// selected chain
func (pc *ProcessingCounters) AddChainBlockCounts(amount uint64) {
	atomic.AddUint64(&pc.chainBlockCounts, amount)
}

// AddMassCounts increments the amount of processed mass units
func (pc *ProcessingCounters) AddMassCounts(amount uint64) {
	atomic.AddUint64(&pc.massCounts, amount)
}

// Snapshot returns a consistent-enough point-in-time copy of the counters.
// Each field is loaded atomically; the snapshot as a whole is not taken
// under a lock, which is acceptable for rate reporting.
func (pc *ProcessingCounters) Snapshot() ProcessingCountersSnapshot {
	return ProcessingCountersSnapshot{
		BlocksSubmitted:  atomic.LoadUint64(&pc.blocksSubmitted),
		HeaderCounts:     atomic.LoadUint64(&pc.headerCounts),
		DepCounts:        atomic.LoadUint64(&pc.depCounts),
		BodyCounts:       atomic.LoadUint64(&pc.bodyCounts),
		TxsCounts:        atomic.LoadUint64(&pc.txsCounts),
		ChainBlockCounts: atomic.LoadUint64(&pc.chainBlockCounts),
		MassCounts:       atomic.LoadUint64(&pc.massCounts),
	}
}

// Sub returns the per-field difference between this snapshot and an older
// one
func (s ProcessingCountersSnapshot) Sub(other ProcessingCountersSnapshot) ProcessingCountersSnapshot {
	return ProcessingCountersSnapshot{
		BlocksSubmitted:  s.BlocksSubmitted - other.BlocksSubmitted,
		HeaderCounts:     s.HeaderCounts - other.HeaderCounts,
		DepCounts:        s.DepCounts - other.DepCounts,
		BodyCounts:       s.BodyCounts - other.BodyCounts,
		TxsCounts:        s.TxsCounts - other.TxsCounts,
		ChainBlockCounts: s.ChainBlockCounts - other.ChainBlockCounts,
		MassCounts:       s.MassCounts - other.MassCounts,
	}
}
