package services

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"
)

// RegisterIntermediary flags an address as holding tokens on behalf of
// beneficiaries. Registration is an administrative action gated by the
// access-control service.
func (s *Service) RegisterIntermediary(ctx context.Context, caller, address string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.RegisterIntermediary(address); err != nil {
		return err
	}
	if err := s.persistIntermediary(ctx, address); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("address", address).Msg("Intermediary registered")
	return nil
}

// UnregisterIntermediary removes the intermediary flag. It fails while
// the intermediary still has tokens attributed to a beneficiary.
func (s *Service) UnregisterIntermediary(ctx context.Context, caller, address string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.UnregisterIntermediary(address); err != nil {
		return err
	}
	if err := s.db.DeleteIntermediary(ctx, address); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("address", address).Msg("Intermediary unregistered")
	return nil
}

// RegisterPendingOrder attributes part of the calling intermediary's
// holdings to a beneficiary. Only the intermediary itself may call this;
// the ledger rejects callers outside the registry.
func (s *Service) RegisterPendingOrder(ctx context.Context, caller, beneficiary string, amount sdkmath.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.RegisterPendingOrder(caller, beneficiary, amount); err != nil {
		return err
	}
	return s.persistIntermediary(ctx, caller)
}

// ReleasePendingOrder releases a previously registered attribution.
func (s *Service) ReleasePendingOrder(ctx context.Context, caller, beneficiary string, amount sdkmath.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.ReleasePendingOrder(caller, beneficiary, amount); err != nil {
		return err
	}
	return s.persistIntermediary(ctx, caller)
}
