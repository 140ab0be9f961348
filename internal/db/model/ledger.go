package model

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
)

const (
	SupplyStateCollection    = "supply_state"
	DepositRecordsCollection = "deposit_records"
	HoldersCollection        = "holders"
	IntermediariesCollection = "intermediaries"
	OverallStatsCollection   = "overall_stats"
)

// Amounts and balance-seconds are stored as decimal strings: they are
// arbitrary precision and must round-trip exactly.

// SupplyStateDocument is the singleton global supply clock plus the head
// of the deposit chain.
type SupplyStateDocument struct {
	ID                   string `bson:"_id"` // always "supply_state"
	TotalBalanceSeconds  string `bson:"total_balance_seconds"`
	LastTimestamp        int64  `bson:"last_timestamp"`
	LastDepositTimestamp int64  `bson:"last_deposit_timestamp"`
}

const SupplyStateID = "supply_state"

// DepositRecordDocument is one coalesced yield deposit, keyed by its
// unix-second timestamp. Records are never deleted.
type DepositRecordDocument struct {
	Timestamp      int64  `bson:"_id"`
	Amount         string `bson:"amount"`
	SupplySnapshot string `bson:"supply_snapshot"`
	PrevTimestamp  int64  `bson:"prev_timestamp"`
}

// HolderDocument is the per-holder accrual accounting, keyed by address.
type HolderDocument struct {
	Address                   string `bson:"_id"`
	Balance                   string `bson:"balance"`
	BalanceSeconds            string `bson:"balance_seconds"`
	YieldAccrued              string `bson:"yield_accrued"`
	YieldWithdrawn            string `bson:"yield_withdrawn"`
	LastBalanceTimestamp      int64  `bson:"last_balance_timestamp"`
	LastSettledBalanceSeconds string `bson:"last_settled_balance_seconds"`
}

// IntermediaryDocument is one registered intermediary and its current
// beneficiary attribution.
type IntermediaryDocument struct {
	Address     string `bson:"_id"`
	Beneficiary string `bson:"beneficiary"`
	Pending     string `bson:"pending"`
}

// OverallStatsDocument aggregates ledger-wide totals for dashboards.
type OverallStatsDocument struct {
	ID             string `bson:"_id"` // always "overall_stats"
	TotalDeposited string `bson:"total_deposited"`
	TotalAccrued   string `bson:"total_accrued"`
	TotalWithdrawn string `bson:"total_withdrawn"`
	HolderCount    int64  `bson:"holder_count"`
	LastUpdated    int64  `bson:"last_updated"`
}

const OverallStatsID = "overall_stats"

func parseInt(field, s string) (sdkmath.Int, error) {
	if s == "" {
		return sdkmath.ZeroInt(), nil
	}
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("malformed %s value %q", field, s)
	}
	return v, nil
}

func FromSupplyState(s *ledger.SupplyState, lastDeposit int64) *SupplyStateDocument {
	return &SupplyStateDocument{
		ID:                   SupplyStateID,
		TotalBalanceSeconds:  s.TotalBalanceSeconds.String(),
		LastTimestamp:        s.LastTimestamp,
		LastDepositTimestamp: lastDeposit,
	}
}

func (d *SupplyStateDocument) ToSupplyState() (ledger.SupplyState, error) {
	total, err := parseInt("total_balance_seconds", d.TotalBalanceSeconds)
	if err != nil {
		return ledger.SupplyState{}, err
	}
	return ledger.SupplyState{
		TotalBalanceSeconds: total,
		LastTimestamp:       d.LastTimestamp,
	}, nil
}

func FromDepositRecord(timestamp int64, rec *ledger.DepositRecord) *DepositRecordDocument {
	return &DepositRecordDocument{
		Timestamp:      timestamp,
		Amount:         rec.Amount.String(),
		SupplySnapshot: rec.SupplySnapshot.String(),
		PrevTimestamp:  rec.PrevTimestamp,
	}
}

func (d *DepositRecordDocument) ToDepositRecord() (*ledger.DepositRecord, error) {
	amount, err := parseInt("amount", d.Amount)
	if err != nil {
		return nil, err
	}
	snapshot, err := parseInt("supply_snapshot", d.SupplySnapshot)
	if err != nil {
		return nil, err
	}
	return &ledger.DepositRecord{
		Amount:         amount,
		SupplySnapshot: snapshot,
		PrevTimestamp:  d.PrevTimestamp,
	}, nil
}

func FromHolderState(h *ledger.HolderState) *HolderDocument {
	return &HolderDocument{
		Address:                   h.Address,
		Balance:                   h.Balance.String(),
		BalanceSeconds:            h.BalanceSeconds.String(),
		YieldAccrued:              h.YieldAccrued.String(),
		YieldWithdrawn:            h.YieldWithdrawn.String(),
		LastBalanceTimestamp:      h.LastBalanceTimestamp,
		LastSettledBalanceSeconds: h.LastSettledBalanceSeconds.String(),
	}
}

func (d *HolderDocument) ToHolderState() (*ledger.HolderState, error) {
	balance, err := parseInt("balance", d.Balance)
	if err != nil {
		return nil, err
	}
	balanceSeconds, err := parseInt("balance_seconds", d.BalanceSeconds)
	if err != nil {
		return nil, err
	}
	accrued, err := parseInt("yield_accrued", d.YieldAccrued)
	if err != nil {
		return nil, err
	}
	withdrawn, err := parseInt("yield_withdrawn", d.YieldWithdrawn)
	if err != nil {
		return nil, err
	}
	lastSettled, err := parseInt("last_settled_balance_seconds", d.LastSettledBalanceSeconds)
	if err != nil {
		return nil, err
	}
	return &ledger.HolderState{
		Address:                   d.Address,
		Balance:                   balance,
		BalanceSeconds:            balanceSeconds,
		YieldAccrued:              accrued,
		YieldWithdrawn:            withdrawn,
		LastBalanceTimestamp:      d.LastBalanceTimestamp,
		LastSettledBalanceSeconds: lastSettled,
	}, nil
}

func FromIntermediaryState(i *ledger.IntermediaryState) *IntermediaryDocument {
	return &IntermediaryDocument{
		Address:     i.Address,
		Beneficiary: i.Beneficiary,
		Pending:     i.Pending.String(),
	}
}

func (d *IntermediaryDocument) ToIntermediaryState() (*ledger.IntermediaryState, error) {
	pending, err := parseInt("pending", d.Pending)
	if err != nil {
		return nil, err
	}
	return &ledger.IntermediaryState{
		Address:     d.Address,
		Beneficiary: d.Beneficiary,
		Pending:     pending,
	}, nil
}
