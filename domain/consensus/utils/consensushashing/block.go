package consensushashing

import (
	"io"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashes"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewBlockHashWriter()
	err := serializeHeader(writer, header)
	if err != nil {
		// Writing to a hash digest never fails, so the only error path here
		// is an unknown type in WriteElement.
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}

func serializeHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	numParentLevels := len(header.Parents)
	if err := serialization.WriteElements(w, header.Version, uint64(numParentLevels)); err != nil {
		return err
	}
	for _, blockLevelParents := range header.Parents {
		if err := serialization.WriteElement(w, uint64(len(blockLevelParents))); err != nil {
			return err
		}
		for _, hash := range blockLevelParents {
			if err := serialization.WriteElement(w, hash); err != nil {
				return err
			}
		}
	}
	return serialization.WriteElements(w, &header.HashMerkleRoot, header.TimeInMilliseconds,
		header.Bits, header.Nonce)
}
