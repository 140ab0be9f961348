package services

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/clients/authclient"
	"github.com/yieldlabs-io/yield-ledger/internal/clients/tokenclient"
	"github.com/yieldlabs-io/yield-ledger/internal/clients/treasuryclient"
	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/internal/db"
	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
	"github.com/yieldlabs-io/yield-ledger/internal/queue"
)

// Service drives the accrual ledger. Every operation takes the mutex for
// its full duration: the ledger's correctness depends on strictly
// serialized state transitions, so there is exactly one writer at any
// time and each operation runs to completion before the next begins.
type Service struct {
	cfg          *config.Config
	db           db.DbInterface
	token        tokenclient.TokenInterface
	treasury     treasuryclient.TreasuryInterface
	auth         authclient.AuthInterface
	queueManager *queue.QueueManager
	clock        clockwork.Clock

	mu     sync.Mutex
	ledger *ledger.Ledger
}

func NewService(
	cfg *config.Config,
	database db.DbInterface,
	token tokenclient.TokenInterface,
	treasury treasuryclient.TreasuryInterface,
	auth authclient.AuthInterface,
	qm *queue.QueueManager,
) *Service {
	return &Service{
		cfg:          cfg,
		db:           database,
		token:        token,
		treasury:     treasury,
		auth:         auth,
		queueManager: qm,
		clock:        clockwork.NewRealClock(),
		ledger:       ledger.New(ledger.NewState(), token),
	}
}

// WithClock swaps the service clock; used by tests to control the
// ledger's notion of the current second.
func (s *Service) WithClock(clock clockwork.Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) now() int64 {
	return s.clock.Now().Unix()
}

// StartLedgerSync rehydrates state, subscribes to balance events and
// runs background pollers. It blocks until ctx is cancelled.
func (s *Service) StartLedgerSync(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return err
	}

	if s.queueManager != nil {
		if err := s.queueManager.ConsumeBalanceEvents(ctx, s.ProcessBalanceChangeEvent); err != nil {
			return err
		}
	}

	s.StartStatsPoller(ctx)

	log.Ctx(ctx).Info().Msg("Ledger sync started")
	<-ctx.Done()
	return nil
}
