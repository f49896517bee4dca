package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// UTXOCollection represents a collection of UTXO entries, indexed by their outpoint
type UTXOCollection interface {
	Iterate(f func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error) error
	Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool)
	Contains(outpoint *externalapi.DomainOutpoint) bool
	Len() int
}

// UTXODiff represents the diff between two UTXO sets: the entries a chain
// block adds to the virtual UTXO set and the entries it removes from it.
// Applying the Reversed() diff undoes the block (the unwind half of the
// unwind/replay protocol).
type UTXODiff interface {
	ToAdd() UTXOCollection
	ToRemove() UTXOCollection
	Reversed() UTXODiff
}
