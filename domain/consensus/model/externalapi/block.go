package externalapi

// DomainBlock is a full block: a header plus its transactions
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}

	return &DomainBlock{
		Header:       block.Header.Clone(),
		Transactions: transactionClone,
	}
}

// A compile failure here means the type definition changed and Equal and
// Clone need updating.
var _ = DomainBlock{&DomainBlockHeader{}, []*DomainTransaction{}}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if len(block.Transactions) != len(other.Transactions) {
		return false
	}

	if !block.Header.Equal(other.Header) {
		return false
	}

	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	return true
}

// DomainBlockHeader represents the header part of a block. It is immutable
// once accepted; identity is the hash of its serialized contents.
type DomainBlockHeader struct {
	Version            uint16
	Parents            []BlockLevelParents
	HashMerkleRoot     DomainHash
	TimeInMilliseconds int64
	Bits               uint32
	Nonce              uint64
}

// DirectParents returns the direct (level 0) parents of the header
func (header *DomainBlockHeader) DirectParents() BlockLevelParents {
	if len(header.Parents) == 0 {
		return BlockLevelParents{}
	}
	return header.Parents[0]
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	return &DomainBlockHeader{
		Version:            header.Version,
		Parents:            CloneParents(header.Parents),
		HashMerkleRoot:     header.HashMerkleRoot,
		TimeInMilliseconds: header.TimeInMilliseconds,
		Bits:               header.Bits,
		Nonce:              header.Nonce,
	}
}

// A compile failure here means the type definition changed and Equal and
// Clone need updating.
var _ = &DomainBlockHeader{0, []BlockLevelParents{}, DomainHash{}, 0, 0, 0}

// Equal returns whether header equals to other
func (header *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}

	if header.Version != other.Version {
		return false
	}

	if !ParentsEqual(header.Parents, other.Parents) {
		return false
	}

	if !header.HashMerkleRoot.Equal(&other.HashMerkleRoot) {
		return false
	}

	if header.TimeInMilliseconds != other.TimeInMilliseconds {
		return false
	}

	if header.Bits != other.Bits {
		return false
	}

	if header.Nonce != other.Nonce {
		return false
	}

	return true
}
