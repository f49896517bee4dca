package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/dagcore/dagd/infrastructure/db/database/ldb"
	"github.com/dagcore/dagd/infrastructure/logger"
)

const databaseCacheSizeMiB = 16

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %+v\n", err)
		os.Exit(1)
	}

	logLevel, ok := logger.LevelFromString(cfg.LogLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "Invalid log level: %s\n", cfg.LogLevel)
		os.Exit(1)
	}
	logger.InitLogStdout(logLevel)

	err = mainImpl(cfg)
	if err != nil {
		log.Criticalf("dagsim failed: %+v", err)
		os.Exit(1)
	}
}

func mainImpl(cfg *configFlags) error {
	dataDir := cfg.DataDir
	if dataDir == "" {
		tempDir, err := os.MkdirTemp("", "dagsim")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tempDir)
		dataDir = tempDir
	}

	db, err := ldb.NewLevelDB(dataDir, databaseCacheSizeMiB)
	if err != nil {
		return err
	}
	defer db.Close()

	params := dagconfig.SimnetParams
	consensusInstance, err := consensus.NewFactory().NewConsensus(&params, db)
	if err != nil {
		return err
	}

	consensusInstance.Start()
	defer consensusInstance.Stop()

	err = consensusInstance.Init()
	if err != nil {
		return err
	}

	log.Infof("Simulating %d miners mining %d blocks (data dir: %s)",
		cfg.NumMiners, cfg.TargetBlocks, dataDir)

	stopStats := make(chan struct{})
	statsDone := make(chan struct{})
	spawn("dagsim.statsLoop", func() {
		statsLoop(consensusInstance, stopStats, statsDone)
	})

	blocksRemaining := int64(cfg.TargetBlocks)
	var wg sync.WaitGroup
	minerErrs := make([]error, cfg.NumMiners)
	for i := uint64(0); i < cfg.NumMiners; i++ {
		minerIndex := i
		m := newMiner(minerIndex, consensusInstance, &params, cfg.ExtraTxs, &blocksRemaining)
		wg.Add(1)
		spawn("dagsim.mineLoop", func() {
			defer wg.Done()
			minerErrs[minerIndex] = m.mineLoop()
		})
	}
	wg.Wait()

	close(stopStats)
	<-statsDone

	for _, err := range minerErrs {
		if err != nil {
			return err
		}
	}

	snapshot := consensusInstance.Counters().Snapshot()
	log.Infof("Done: %d blocks submitted, %d headers, %d bodies, %d txs, "+
		"%d chain blocks, %d mass",
		snapshot.BlocksSubmitted, snapshot.HeaderCounts, snapshot.BodyCounts,
		snapshot.TxsCounts, snapshot.ChainBlockCounts, snapshot.MassCounts)

	virtualInfo, err := consensusInstance.GetVirtualInfo()
	if err != nil {
		return err
	}
	utxoSetSize, err := consensusInstance.GetVirtualUTXOSetSize()
	if err != nil {
		return err
	}
	log.Infof("Virtual: blue score %d, %d parents, selected parent %s, %d UTXO entries",
		virtualInfo.BlueScore, len(virtualInfo.ParentHashes), virtualInfo.SelectedParent, utxoSetSize)
	return nil
}

// statsLoop logs the per-second rates of the processing counters until
// stopChan closes
func statsLoop(consensusInstance consensus.Consensus, stopChan, doneChan chan struct{}) {
	defer close(doneChan)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	previous := consensusInstance.Counters().Snapshot()
	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			current := consensusInstance.Counters().Snapshot()
			window := current.Sub(previous)
			previous = current

			log.Infof("%d blocks/s, %d headers/s, %d txs/s, %d chain blocks/s",
				window.BlocksSubmitted, window.HeaderCounts, window.TxsCounts,
				window.ChainBlockCounts)
		}
	}
}
