package binaryserialization

import (
	"bytes"

	"github.com/dagcore/dagd/domain/consensus/model"
)

// SerializeBlockRelations serializes block relations to a slice of bytes
func SerializeBlockRelations(blockRelations *model.BlockRelations) ([]byte, error) {
	w := &bytes.Buffer{}
	err := writeHashSlice(w, blockRelations.Parents)
	if err != nil {
		return nil, err
	}
	err = writeHashSlice(w, blockRelations.Children)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeBlockRelations deserializes a slice of bytes to block relations
func DeserializeBlockRelations(blockRelationsBytes []byte) (*model.BlockRelations, error) {
	r := bytes.NewReader(blockRelationsBytes)
	parents, err := readHashSlice(r)
	if err != nil {
		return nil, err
	}
	children, err := readHashSlice(r)
	if err != nil {
		return nil, err
	}
	return &model.BlockRelations{Parents: parents, Children: children}, nil
}
