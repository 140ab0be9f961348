package tokenclient

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

type TokenInterface interface {
	BalanceOf(ctx context.Context, address string) (sdkmath.Int, error)
	TotalSupply(ctx context.Context) (sdkmath.Int, error)
}
