package transactionhelper

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// CoinbaseTransactionIndex is the index of the coinbase transaction
// within a block's transactions
const CoinbaseTransactionIndex = 0

// IsCoinBase determines whether or not a transaction is a coinbase
// transaction. A coinbase transaction creates new coins out of thin air,
// and therefore has no inputs.
func IsCoinBase(tx *externalapi.DomainTransaction) bool {
	return len(tx.Inputs) == 0
}
