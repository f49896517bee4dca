package utxo

import (
	"fmt"
	"strings"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type utxoCollection map[externalapi.DomainOutpoint]*externalapi.UTXOEntry

// NewUTXOCollection creates a UTXO-Collection from the given map from outpoint to UTXOEntry
func NewUTXOCollection(utxoMap map[externalapi.DomainOutpoint]*externalapi.UTXOEntry) model.UTXOCollection {
	return utxoCollection(utxoMap)
}

func (uc utxoCollection) Iterate(f func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error) error {
	for outpoint, entry := range uc {
		outpointCopy := outpoint
		err := f(&outpointCopy, entry)
		if err != nil {
			return err
		}
	}
	return nil
}

func (uc utxoCollection) Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, bool) {
	entry, ok := uc[*outpoint]
	return entry, ok
}

func (uc utxoCollection) Contains(outpoint *externalapi.DomainOutpoint) bool {
	_, ok := uc[*outpoint]
	return ok
}

func (uc utxoCollection) Len() int {
	return len(uc)
}

func (uc utxoCollection) String() string {
	utxoStrings := make([]string, 0, len(uc))
	for outpoint, entry := range uc {
		utxoStrings = append(utxoStrings,
			fmt.Sprintf("(%s, %d) => %d, blueScore: %d",
				outpoint.TransactionID, outpoint.Index, entry.Amount, entry.BlockBlueScore))
	}
	return "[ " + strings.Join(utxoStrings, ", ") + " ]"
}

// add adds a new UTXO entry to this collection
func (uc utxoCollection) add(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	uc[*outpoint] = entry
}

// remove removes a UTXO entry from this collection if it exists
func (uc utxoCollection) remove(outpoint *externalapi.DomainOutpoint) {
	delete(uc, *outpoint)
}

func (uc utxoCollection) clone() utxoCollection {
	clone := make(utxoCollection, len(uc))
	for outpoint, entry := range uc {
		clone[outpoint] = entry
	}
	return clone
}
