package binaryserialization

import (
	"bytes"
	"io"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
)

// SerializeHeader serializes a block header to a slice of bytes
func SerializeHeader(header *externalapi.DomainBlockHeader) ([]byte, error) {
	w := &bytes.Buffer{}
	err := writeHeader(w, header)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeHeader deserializes a slice of bytes to a block header
func DeserializeHeader(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	return readHeader(bytes.NewReader(headerBytes))
}

func writeHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	err := serialization.WriteElements(w, header.Version, uint64(len(header.Parents)))
	if err != nil {
		return err
	}
	for _, blockLevelParents := range header.Parents {
		err := serialization.WriteElement(w, uint64(len(blockLevelParents)))
		if err != nil {
			return err
		}
		for _, parent := range blockLevelParents {
			err := serialization.WriteElement(w, parent)
			if err != nil {
				return err
			}
		}
	}
	return serialization.WriteElements(w, &header.HashMerkleRoot, header.TimeInMilliseconds,
		header.Bits, header.Nonce)
}

func readHeader(r io.Reader) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{}
	var numParentLevels uint64
	err := serialization.ReadElements(r, &header.Version, &numParentLevels)
	if err != nil {
		return nil, err
	}
	header.Parents = make([]externalapi.BlockLevelParents, numParentLevels)
	for i := uint64(0); i < numParentLevels; i++ {
		var numParents uint64
		err := serialization.ReadElement(r, &numParents)
		if err != nil {
			return nil, err
		}
		header.Parents[i] = make(externalapi.BlockLevelParents, numParents)
		for j := uint64(0); j < numParents; j++ {
			header.Parents[i][j], err = readHash(r)
			if err != nil {
				return nil, err
			}
		}
	}
	merkleRoot, err := readHash(r)
	if err != nil {
		return nil, err
	}
	header.HashMerkleRoot = *merkleRoot
	err = serialization.ReadElements(r, &header.TimeInMilliseconds, &header.Bits, &header.Nonce)
	if err != nil {
		return nil, err
	}
	return header, nil
}

func readHash(r io.Reader) (*externalapi.DomainHash, error) {
	hashBytes := make([]byte, externalapi.DomainHashSize)
	_, err := io.ReadFull(r, hashBytes)
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}
