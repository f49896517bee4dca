package txmass

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// Calculator exposes methods to calculate the mass of a transaction
type Calculator struct {
	massPerTxByte uint64
}

// NewCalculator creates a new instance of Calculator
func NewCalculator(massPerTxByte uint64) *Calculator {
	return &Calculator{
		massPerTxByte: massPerTxByte,
	}
}

// CalculateTransactionMass calculates the mass of the given transaction
func (c *Calculator) CalculateTransactionMass(transaction *externalapi.DomainTransaction) uint64 {
	return transactionEstimatedSerializedSize(transaction) * c.massPerTxByte
}

// transactionEstimatedSerializedSize is the estimated size of a transaction in
// serialized form once signatures are attached. It is in sync with the
// serialization format used for transaction hashing.
func transactionEstimatedSerializedSize(tx *externalapi.DomainTransaction) uint64 {
	size := uint64(0)
	size += 2 // Version (uint16)
	size += 8 // number of inputs (uint64)
	for range tx.Inputs {
		size += transactionInputEstimatedSerializedSize()
	}

	size += 8 // number of outputs (uint64)
	for _, output := range tx.Outputs {
		size += transactionOutputEstimatedSerializedSize(output)
	}

	size += 8 // lock time (uint64)
	size += 8 + uint64(len(tx.Payload))

	return size
}

func transactionInputEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += outpointEstimatedSerializedSize()
	size += 8 // sequence (uint64)
	return size
}

func outpointEstimatedSerializedSize() uint64 {
	size := uint64(0)
	size += externalapi.DomainHashSize // transaction ID
	size += 4                          // index (uint32)
	return size
}

func transactionOutputEstimatedSerializedSize(output *externalapi.DomainTransactionOutput) uint64 {
	size := uint64(0)
	size += 8 // value (uint64)
	size += 8 + uint64(len(output.ScriptPublicKey))
	return size
}
