package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// Multiset is an incremental hash commitment over an unordered collection
// of elements. Adding and removing are commutative, which makes it suitable
// for committing to the virtual UTXO set under unwind/replay.
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() *externalapi.DomainHash
	Serialize() []byte
	Clone() Multiset
}
