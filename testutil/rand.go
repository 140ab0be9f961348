package testutil

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
)

// RandomAddress generates a plausible opaque account address. Addresses
// carry no structure in the ledger; a prefixed hex string keeps test
// output readable.
func RandomAddress() string {
	return fmt.Sprintf("acct1%s", gofakeit.HexUint(128)[2:])
}

// RandomAmount generates a positive token amount up to max.
func RandomAmount(max int64) sdkmath.Int {
	return sdkmath.NewInt(int64(gofakeit.IntRange(1, int(max))))
}
