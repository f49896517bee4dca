package externalapi

// UTXOEntry houses details about an individual transaction output in a UTXO
type UTXOEntry struct {
	Amount          uint64
	ScriptPublicKey []byte
	BlockBlueScore  uint64
	IsCoinbase      bool
}

// Clone returns a clone of UTXOEntry
func (entry *UTXOEntry) Clone() *UTXOEntry {
	scriptClone := make([]byte, len(entry.ScriptPublicKey))
	copy(scriptClone, entry.ScriptPublicKey)

	return &UTXOEntry{
		Amount:          entry.Amount,
		ScriptPublicKey: scriptClone,
		BlockBlueScore:  entry.BlockBlueScore,
		IsCoinbase:      entry.IsCoinbase,
	}
}

// Equal returns whether entry equals to other
func (entry *UTXOEntry) Equal(other *UTXOEntry) bool {
	if entry == nil || other == nil {
		return entry == other
	}

	if entry.Amount != other.Amount {
		return false
	}

	if !bytesEqual(entry.ScriptPublicKey, other.ScriptPublicKey) {
		return false
	}

	return entry.BlockBlueScore == other.BlockBlueScore &&
		entry.IsCoinbase == other.IsCoinbase
}

// OutpointAndUTXOEntryPair is an outpoint along with its respective UTXO entry
type OutpointAndUTXOEntryPair struct {
	Outpoint  *DomainOutpoint
	UTXOEntry *UTXOEntry
}
