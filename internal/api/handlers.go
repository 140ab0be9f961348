package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/db"
	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
	"github.com/yieldlabs-io/yield-ledger/internal/services"
	"github.com/yieldlabs-io/yield-ledger/pkg"
)

// callerHeader identifies the account behind an administrative request.
// Authorization itself is checked against the access-control service.
const callerHeader = "X-Caller"

type errorResponse struct {
	Error string `json:"error"`
}

type amountResponse struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// addressParam extracts and validates the address path parameter.
func addressParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := chi.URLParam(r, "address")
	if err := pkg.ValidateAddress(address); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	return address, true
}

type depositRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("invalid amount"))
		return
	}

	caller := r.Header.Get(callerHeader)
	if err := s.svc.Deposit(r.Context(), caller, amount); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	payout, err := s.svc.Settle(r.Context(), address)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Address: address, Amount: payout.String()})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	paid, err := s.svc.Claim(r.Context(), address)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Address: address, Amount: paid.String()})
}

type balanceChangeRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// handleBalanceChange is the synchronous variant of the queue-delivered
// balance hook, for token ledgers that call back over HTTP instead.
func (s *Server) handleBalanceChange(w http.ResponseWriter, r *http.Request) {
	var req balanceChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("invalid amount"))
		return
	}

	if err := s.svc.ApplyBalanceChange(r.Context(), req.From, req.To, amount, req.Timestamp); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

func (s *Server) handleRegisterIntermediary(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	caller := r.Header.Get(callerHeader)
	if err := s.svc.RegisterIntermediary(r.Context(), caller, address); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

func (s *Server) handleUnregisterIntermediary(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	caller := r.Header.Get(callerHeader)
	if err := s.svc.UnregisterIntermediary(r.Context(), caller, address); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unregistered"})
}

type pendingOrderRequest struct {
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

func (s *Server) handleRegisterPendingOrder(w http.ResponseWriter, r *http.Request) {
	s.handlePendingOrder(w, r, s.svc.RegisterPendingOrder)
}

func (s *Server) handleReleasePendingOrder(w http.ResponseWriter, r *http.Request) {
	s.handlePendingOrder(w, r, s.svc.ReleasePendingOrder)
}

func (s *Server) handlePendingOrder(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, caller, beneficiary string, amount sdkmath.Int) error,
) {
	var req pendingOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("invalid amount"))
		return
	}

	caller, callerOk := addressParam(w, r)
	if !callerOk {
		return
	}
	if err := apply(r.Context(), caller, req.Beneficiary, amount); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type holderResponse struct {
	Address                   string `json:"address"`
	Balance                   string `json:"balance"`
	BalanceSeconds            string `json:"balance_seconds"`
	YieldAccrued              string `json:"yield_accrued"`
	YieldWithdrawn            string `json:"yield_withdrawn"`
	YieldClaimable            string `json:"yield_claimable"`
	LastBalanceTimestamp      int64  `json:"last_balance_timestamp"`
	LastSettledBalanceSeconds string `json:"last_settled_balance_seconds"`
}

func (s *Server) handleGetHolder(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	holder := s.svc.GetHolder(address)
	if holder == nil {
		writeError(w, http.StatusNotFound, errors.New("holder not found"))
		return
	}
	writeJSON(w, http.StatusOK, holderResponse{
		Address:                   holder.Address,
		Balance:                   holder.Balance.String(),
		BalanceSeconds:            holder.BalanceSeconds.String(),
		YieldAccrued:              holder.YieldAccrued.String(),
		YieldWithdrawn:            holder.YieldWithdrawn.String(),
		YieldClaimable:            holder.YieldAccrued.Sub(holder.YieldWithdrawn).String(),
		LastBalanceTimestamp:      holder.LastBalanceTimestamp,
		LastSettledBalanceSeconds: holder.LastSettledBalanceSeconds.String(),
	})
}

type intermediaryResponse struct {
	Address     string `json:"address"`
	Beneficiary string `json:"beneficiary,omitempty"`
	Pending     string `json:"pending"`
}

func (s *Server) handleGetIntermediary(w http.ResponseWriter, r *http.Request) {
	address, ok := addressParam(w, r)
	if !ok {
		return
	}
	inter := s.svc.GetIntermediary(address)
	if inter == nil {
		writeError(w, http.StatusNotFound, errors.New("intermediary not found"))
		return
	}
	writeJSON(w, http.StatusOK, intermediaryResponse{
		Address:     inter.Address,
		Beneficiary: inter.Beneficiary,
		Pending:     inter.Pending.String(),
	})
}

type depositResponse struct {
	Timestamp      int64  `json:"timestamp"`
	Amount         string `json:"amount"`
	SupplySnapshot string `json:"supply_snapshot"`
	PrevTimestamp  int64  `json:"prev_timestamp"`
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	timestamp, err := strconv.ParseInt(chi.URLParam(r, "timestamp"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid timestamp"))
		return
	}
	rec := s.svc.GetDepositRecord(timestamp)
	if rec == nil {
		writeError(w, http.StatusNotFound, errors.New("deposit record not found"))
		return
	}
	writeJSON(w, http.StatusOK, depositResponse{
		Timestamp:      timestamp,
		Amount:         rec.Amount.String(),
		SupplySnapshot: rec.SupplySnapshot.String(),
		PrevTimestamp:  rec.PrevTimestamp,
	})
}

type supplyResponse struct {
	TotalBalanceSeconds  string `json:"total_balance_seconds"`
	LastTimestamp        int64  `json:"last_timestamp"`
	LastDepositTimestamp int64  `json:"last_deposit_timestamp"`
}

func (s *Server) handleGetSupply(w http.ResponseWriter, r *http.Request) {
	supply, lastDeposit := s.svc.GetSupplyState()
	writeJSON(w, http.StatusOK, supplyResponse{
		TotalBalanceSeconds:  supply.TotalBalanceSeconds.String(),
		LastTimestamp:        supply.LastTimestamp,
		LastDepositTimestamp: lastDeposit,
	})
}

type statsResponse struct {
	TotalDeposited string `json:"total_deposited"`
	TotalAccrued   string `json:"total_accrued"`
	TotalWithdrawn string `json:"total_withdrawn"`
	HolderCount    int64  `json:"holder_count"`
	LastUpdated    int64  `json:"last_updated"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.GetOverallStats(r.Context())
	if err != nil {
		if db.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, errors.New("stats not aggregated yet"))
			return
		}
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TotalDeposited: doc.TotalDeposited,
		TotalAccrued:   doc.TotalAccrued,
		TotalWithdrawn: doc.TotalWithdrawn,
		HolderCount:    doc.HolderCount,
		LastUpdated:    doc.LastUpdated,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeLedgerError maps ledger and service errors onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var transferErr *ledger.TransferError

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, ledger.ErrInvalidAddress),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrStaleTimestamp):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ledger.ErrNotIntermediary):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, ledger.ErrAlreadyIntermediary),
		errors.Is(err, ledger.ErrPendingNotCleared),
		errors.Is(err, ledger.ErrBeneficiaryMismatch),
		errors.Is(err, ledger.ErrPendingUnderflow):
		writeError(w, http.StatusConflict, err)
	case errors.As(err, &transferErr):
		writeError(w, http.StatusBadGateway, err)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Unhandled API error")
		writeError(w, http.StatusInternalServerError, err)
	}
}
