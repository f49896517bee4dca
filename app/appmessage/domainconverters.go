package appmessage

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// DomainBlockHeaderToBlockHeader converts an externalapi.DomainBlockHeader to MsgBlockHeader
func DomainBlockHeaderToBlockHeader(domainBlockHeader *externalapi.DomainBlockHeader) *MsgBlockHeader {
	return &MsgBlockHeader{
		Version:            domainBlockHeader.Version,
		Parents:            domainBlockHeader.Parents,
		HashMerkleRoot:     &domainBlockHeader.HashMerkleRoot,
		TimeInMilliseconds: domainBlockHeader.TimeInMilliseconds,
		Bits:               domainBlockHeader.Bits,
		Nonce:              domainBlockHeader.Nonce,
	}
}

// BlockHeaderToDomainBlockHeader converts a MsgBlockHeader to externalapi.DomainBlockHeader
func BlockHeaderToDomainBlockHeader(blockHeader *MsgBlockHeader) *externalapi.DomainBlockHeader {
	return &externalapi.DomainBlockHeader{
		Version:            blockHeader.Version,
		Parents:            blockHeader.Parents,
		HashMerkleRoot:     *blockHeader.HashMerkleRoot,
		TimeInMilliseconds: blockHeader.TimeInMilliseconds,
		Bits:               blockHeader.Bits,
		Nonce:              blockHeader.Nonce,
	}
}
