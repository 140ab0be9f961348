package treasuryclient

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// TreasuryInterface moves deposited yield value into and out of custody.
// Both calls may fail; the triggering ledger operation must then fail as
// a whole.
type TreasuryInterface interface {
	MoveIn(ctx context.Context, from string, amount sdkmath.Int) error
	MoveOut(ctx context.Context, to string, amount sdkmath.Int) error
}
