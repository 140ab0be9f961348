package pkg

import (
	"errors"
	"fmt"
)

// maxAddressLen caps addresses well above anything a real account system
// produces; it exists to bound storage keys, not to impose a format.
const maxAddressLen = 256

// ValidateAddress checks that an account address is usable as a ledger
// key. Addresses are opaque to the ledger, so the only rules are that
// the address is non-empty (the empty string is the mint/burn sentinel)
// and printable without whitespace.
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("address must not be empty")
	}
	if len(address) > maxAddressLen {
		return fmt.Errorf("address exceeds %d bytes", maxAddressLen)
	}
	for _, r := range address {
		if r <= ' ' || r > '~' {
			return fmt.Errorf("address contains invalid character %q", r)
		}
	}
	return nil
}
