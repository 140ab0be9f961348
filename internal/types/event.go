package types

type EventTypes string

func (e EventTypes) String() string {
	return string(e)
}

const (
	// EventBalanceChange is emitted by the token ledger before it
	// finalizes a transfer. Mints and burns carry the zero sentinel
	// (empty address) on the corresponding side.
	EventBalanceChange EventTypes = "token.v1.EventBalanceChange"

	// EventYieldSettled and EventYieldClaimed are published by this
	// service for downstream consumers.
	EventYieldSettled EventTypes = "yieldledger.v1.EventYieldSettled"
	EventYieldClaimed EventTypes = "yieldledger.v1.EventYieldClaimed"
)

// BalanceChangeEvent is the payload of EventBalanceChange. Amounts are
// decimal strings.
type BalanceChangeEvent struct {
	EventType string `json:"event_type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// SettlementEvent is the payload of EventYieldSettled and
// EventYieldClaimed.
type SettlementEvent struct {
	EventType string `json:"event_type"`
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}
