package ruleerrors

import (
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrDuplicateBlock indicates a block with the same hash was already
	// submitted and fully processed.
	ErrDuplicateBlock = newRuleError("ErrDuplicateBlock")

	// ErrKnownInvalid indicates a block with the same hash was already
	// submitted and found invalid.
	ErrKnownInvalid = newRuleError("ErrKnownInvalid")

	// ErrInvalidAncestorBlock indicates that one of the block's ancestors
	// failed validation, making this block invalid as well.
	ErrInvalidAncestorBlock = newRuleError("ErrInvalidAncestorBlock")

	// ErrMissingParents indicates one or more of the block's direct
	// parents are not known to the node.
	ErrMissingParents = newRuleError("ErrMissingParents")

	// ErrNoParents indicates a non-genesis block carries an empty
	// parents list.
	ErrNoParents = newRuleError("ErrNoParents")

	// ErrTooManyParents indicates a block carries more direct parents
	// than the maximum allowed.
	ErrTooManyParents = newRuleError("ErrTooManyParents")

	// ErrDuplicateParents indicates a block listed the same parent hash
	// more than once.
	ErrDuplicateParents = newRuleError("ErrDuplicateParents")

	// ErrInvalidParentsRelation indicates that one of the block's direct
	// parents is an ancestor of another direct parent.
	ErrInvalidParentsRelation = newRuleError("ErrInvalidParentsRelation")

	// ErrBadMerkleRoot indicates the calculated merkle root of the block
	// transactions does not match the header commitment.
	ErrBadMerkleRoot = newRuleError("ErrBadMerkleRoot")

	// ErrNoTransactions indicates the block body does not contain even
	// a single transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// is not a coinbase transaction.
	ErrFirstTxNotCoinbase = newRuleError("ErrFirstTxNotCoinbase")

	// ErrDuplicateTx indicates a block contains the same transaction twice.
	ErrDuplicateTx = newRuleError("ErrDuplicateTx")

	// ErrBlockMassTooHigh indicates the total mass of the block
	// transactions exceeds the maximum allowed.
	ErrBlockMassTooHigh = newRuleError("ErrBlockMassTooHigh")

	// ErrTimeTooOld indicates the header timestamp is not strictly later
	// than the past median time of its parents.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld")

	// ErrTimeTooMuchInTheFuture indicates the header timestamp is beyond
	// the allowed deviation from the node's adjusted time.
	ErrTimeTooMuchInTheFuture = newRuleError("ErrTimeTooMuchInTheFuture")

	// ErrUnexpectedDifficulty indicates the header difficulty bits do not
	// match the expected value for the block's position in the DAG.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrTargetTooHigh indicates the difficulty target encoded in the
	// header is above the network's proof-of-work limit.
	ErrTargetTooHigh = newRuleError("ErrTargetTooHigh")

	// ErrInvalidPoW indicates the block hash does not satisfy the target
	// difficulty encoded in its header.
	ErrInvalidPoW = newRuleError("ErrInvalidPoW")

	// ErrWrongBlockVersion indicates the block version is not the one
	// the network currently expects.
	ErrWrongBlockVersion = newRuleError("ErrWrongBlockVersion")

	// ErrViolatingBoundedMergeDepth indicates the block's mergeset
	// reaches deeper than the bounded merge depth allows.
	ErrViolatingBoundedMergeDepth = newRuleError("ErrViolatingBoundedMergeDepth")

	// ErrViolatingMergeLimit indicates the block's mergeset is bigger
	// than the merge set size limit.
	ErrViolatingMergeLimit = newRuleError("ErrViolatingMergeLimit")

	// ErrDoubleSpend indicates a transaction in the block spends an
	// outpoint that was already spent on the same chain.
	ErrDoubleSpend = newRuleError("ErrDoubleSpend")

	// ErrMissingTxOut indicates a transaction input references an
	// outpoint that does not exist in the UTXO set.
	ErrMissingTxOut = newRuleError("ErrMissingTxOut")

	// ErrPrunedBlock indicates the block is in the past of the pruning
	// point and may no longer be submitted.
	ErrPrunedBlock = newRuleError("ErrPrunedBlock")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation
// rules. It has full support for errors.Is and errors.As, so the
// specific violation can be matched against the sentinels above.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is lets errors.Is match a wrapped RuleError against its sentinel
func (e RuleError) Is(target error) bool {
	ruleErrorTarget, ok := target.(RuleError)
	if !ok {
		return false
	}
	return e.message == ruleErrorTarget.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// Errorf formats according to a format specifier and returns the string
// as a RuleError wrapping the given sentinel.
func Errorf(baseError RuleError, format string, args ...interface{}) error {
	return RuleError{
		message: baseError.message,
		inner:   errors.Errorf(format, args...),
	}
}

// Wrapf wraps the given error inside a RuleError with the given sentinel.
func Wrapf(baseError RuleError, err error, format string, args ...interface{}) error {
	return RuleError{
		message: baseError.message,
		inner:   errors.Wrapf(err, format, args...),
	}
}

// Is returns whether err is or wraps a RuleError
func Is(err error) bool {
	var dummy RuleError
	return errors.As(err, &dummy)
}
