package binaryserialization

import (
	"bytes"
	"io"
	"math/big"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
)

// SerializeGHOSTDAGData serializes GHOSTDAG data to a slice of bytes
func SerializeGHOSTDAGData(ghostdagData *model.BlockGHOSTDAGData) ([]byte, error) {
	w := &bytes.Buffer{}

	err := serialization.WriteElements(w, ghostdagData.BlueScore(), ghostdagData.BlueWork().Bytes())
	if err != nil {
		return nil, err
	}

	hasSelectedParent := ghostdagData.SelectedParent() != nil
	err = serialization.WriteElement(w, hasSelectedParent)
	if err != nil {
		return nil, err
	}
	if hasSelectedParent {
		err = serialization.WriteElement(w, ghostdagData.SelectedParent())
		if err != nil {
			return nil, err
		}
	}

	err = writeHashSlice(w, ghostdagData.MergeSetBlues())
	if err != nil {
		return nil, err
	}
	err = writeHashSlice(w, ghostdagData.MergeSetReds())
	if err != nil {
		return nil, err
	}

	bluesAnticoneSizes := ghostdagData.BluesAnticoneSizes()
	err = serialization.WriteElement(w, uint64(len(bluesAnticoneSizes)))
	if err != nil {
		return nil, err
	}
	for blueHash, anticoneSize := range bluesAnticoneSizes {
		blueHashCopy := blueHash
		err := serialization.WriteElements(w, &blueHashCopy, uint8(anticoneSize))
		if err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// DeserializeGHOSTDAGData deserializes a slice of bytes to GHOSTDAG data
func DeserializeGHOSTDAGData(ghostdagDataBytes []byte) (*model.BlockGHOSTDAGData, error) {
	r := bytes.NewReader(ghostdagDataBytes)

	var blueScore uint64
	err := serialization.ReadElement(r, &blueScore)
	if err != nil {
		return nil, err
	}
	blueWorkBytes, err := readByteSlice(r)
	if err != nil {
		return nil, err
	}
	blueWork := new(big.Int).SetBytes(blueWorkBytes)

	var hasSelectedParent bool
	err = serialization.ReadElement(r, &hasSelectedParent)
	if err != nil {
		return nil, err
	}
	var selectedParent *externalapi.DomainHash
	if hasSelectedParent {
		selectedParent, err = readHash(r)
		if err != nil {
			return nil, err
		}
	}

	mergeSetBlues, err := readHashSlice(r)
	if err != nil {
		return nil, err
	}
	mergeSetReds, err := readHashSlice(r)
	if err != nil {
		return nil, err
	}

	var bluesAnticoneSizesLen uint64
	err = serialization.ReadElement(r, &bluesAnticoneSizesLen)
	if err != nil {
		return nil, err
	}
	bluesAnticoneSizes := make(map[externalapi.DomainHash]model.KType, bluesAnticoneSizesLen)
	for i := uint64(0); i < bluesAnticoneSizesLen; i++ {
		blueHash, err := readHash(r)
		if err != nil {
			return nil, err
		}
		var anticoneSize uint8
		err = serialization.ReadElement(r, &anticoneSize)
		if err != nil {
			return nil, err
		}
		bluesAnticoneSizes[*blueHash] = model.KType(anticoneSize)
	}

	return model.NewBlockGHOSTDAGData(blueScore, blueWork, selectedParent,
		mergeSetBlues, mergeSetReds, bluesAnticoneSizes), nil
}

func writeHashSlice(w io.Writer, hashes []*externalapi.DomainHash) error {
	err := serialization.WriteElement(w, uint64(len(hashes)))
	if err != nil {
		return err
	}
	for _, hash := range hashes {
		err := serialization.WriteElement(w, hash)
		if err != nil {
			return err
		}
	}
	return nil
}

func readHashSlice(r io.Reader) ([]*externalapi.DomainHash, error) {
	var length uint64
	err := serialization.ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	hashes := make([]*externalapi.DomainHash, length)
	for i := uint64(0); i < length; i++ {
		hashes[i], err = readHash(r)
		if err != nil {
			return nil, err
		}
	}
	return hashes, nil
}
