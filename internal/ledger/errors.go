package ledger

import "errors"

var (
	// ErrInvalidAddress is returned when an operation receives the zero
	// sentinel or an otherwise empty address where a real account is
	// required.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNegativeAmount is returned when an operation receives a negative
	// amount.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrStaleTimestamp is returned when an operation carries a timestamp
	// older than state it would have to rewrite.
	ErrStaleTimestamp = errors.New("timestamp predates ledger state")

	// ErrAlreadyIntermediary is returned when registering an address that
	// is already in the intermediary registry.
	ErrAlreadyIntermediary = errors.New("address is already a registered intermediary")

	// ErrNotIntermediary is returned when an intermediary-only operation
	// is attempted by, or targets, an unregistered address.
	ErrNotIntermediary = errors.New("address is not a registered intermediary")

	// ErrPendingNotCleared is returned when unregistering an intermediary
	// that still has tokens attributed to a beneficiary.
	ErrPendingNotCleared = errors.New("intermediary still holds pending tokens")

	// ErrBeneficiaryMismatch is returned when an order names a beneficiary
	// other than the one currently associated with the intermediary.
	ErrBeneficiaryMismatch = errors.New("beneficiary does not match current association")

	// ErrPendingUnderflow signals a defect in the caller: releasing more
	// intermediary-held tokens than are tracked.
	ErrPendingUnderflow = errors.New("release exceeds pending intermediary-held amount")
)

// TransferError wraps a failure of the external value-transfer
// collaborator. The triggering operation is aborted and no accounting is
// committed.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return "value transfer failed during " + e.Op + ": " + e.Err.Error()
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
