package blockvalidator

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/merkle"
	"github.com/dagcore/dagd/domain/consensus/utils/transactionhelper"
)

// ValidateBodyInIsolation validates block bodies in isolation from the current
// consensus state. As a side effect it fills in the mass of each of the
// block's transactions.
func (v *blockValidator) ValidateBodyInIsolation(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	err := v.checkBlockContainsAtLeastOneTransaction(block)
	if err != nil {
		return err
	}

	err = v.checkFirstBlockTransactionIsCoinbase(block)
	if err != nil {
		return err
	}

	err = v.checkBlockHashMerkleRoot(block)
	if err != nil {
		return err
	}

	err = v.checkBlockDuplicateTransactions(block)
	if err != nil {
		return err
	}

	return v.checkBlockMass(block)
}

func (v *blockValidator) checkBlockContainsAtLeastOneTransaction(block *externalapi.DomainBlock) error {
	if len(block.Transactions) == 0 {
		return ruleerrors.Errorf(ruleerrors.ErrNoTransactions,
			"block does not contain any transactions")
	}
	return nil
}

func (v *blockValidator) checkFirstBlockTransactionIsCoinbase(block *externalapi.DomainBlock) error {
	if !transactionhelper.IsCoinBase(block.Transactions[transactionhelper.CoinbaseTransactionIndex]) {
		return ruleerrors.Errorf(ruleerrors.ErrFirstTxNotCoinbase,
			"first transaction in block is not a coinbase transaction")
	}
	return nil
}

func (v *blockValidator) checkBlockHashMerkleRoot(block *externalapi.DomainBlock) error {
	calculatedHashMerkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions)
	if !block.Header.HashMerkleRoot.Equal(calculatedHashMerkleRoot) {
		return ruleerrors.Errorf(ruleerrors.ErrBadMerkleRoot,
			"block hash merkle root is invalid - block header indicates %s, but calculated value is %s",
			&block.Header.HashMerkleRoot, calculatedHashMerkleRoot)
	}
	return nil
}

func (v *blockValidator) checkBlockDuplicateTransactions(block *externalapi.DomainBlock) error {
	existingTxIDs := make(map[externalapi.DomainTransactionID]struct{})
	for _, transaction := range block.Transactions {
		txID := consensushashing.TransactionID(transaction)
		if _, exists := existingTxIDs[*txID]; exists {
			return ruleerrors.Errorf(ruleerrors.ErrDuplicateTx,
				"block contains duplicate transaction %s", txID)
		}
		existingTxIDs[*txID] = struct{}{}
	}
	return nil
}

func (v *blockValidator) checkBlockMass(block *externalapi.DomainBlock) error {
	totalMass := uint64(0)
	for _, transaction := range block.Transactions {
		transaction.Mass = v.txMassCalculator.CalculateTransactionMass(transaction)

		totalMass += transaction.Mass
		// A simple totalMass < transaction.Mass check is enough to
		// catch overflows since mass is summed over uint64s.
		if totalMass < transaction.Mass || totalMass > v.maxBlockMass {
			return ruleerrors.Errorf(ruleerrors.ErrBlockMassTooHigh,
				"block exceeded the mass limit of %d", v.maxBlockMass)
		}
	}
	return nil
}
