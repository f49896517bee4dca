package main

import (
	"github.com/jessevdk/go-flags"
)

const (
	defaultNumMiners   = 4
	defaultTargetBlock = 10000
	defaultLogLevel    = "info"
)

type configFlags struct {
	NumMiners    uint64 `short:"m" long:"numminers" description:"Number of simulated miners mining concurrently"`
	TargetBlocks uint64 `short:"n" long:"numblocks" description:"Number of blocks to mine before exiting"`
	DataDir      string `short:"b" long:"datadir" description:"Directory to store the database in (default: a temporary directory)"`
	LogLevel     string `short:"d" long:"loglevel" description:"Logging level: {trace, debug, info, warn, error, critical}"`
	ExtraTxs     uint64 `long:"extratxs" description:"Number of extra transactions to put in every block"`
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		NumMiners:    defaultNumMiners,
		TargetBlocks: defaultTargetBlock,
		LogLevel:     defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
