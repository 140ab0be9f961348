package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yieldlabs-io/yield-ledger/internal/api"
	"github.com/yieldlabs-io/yield-ledger/internal/clients/authclient"
	"github.com/yieldlabs-io/yield-ledger/internal/clients/tokenclient"
	"github.com/yieldlabs-io/yield-ledger/internal/clients/treasuryclient"
	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/internal/db"
	dbmodel "github.com/yieldlabs-io/yield-ledger/internal/db/model"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/tracing"
	"github.com/yieldlabs-io/yield-ledger/internal/queue"
	"github.com/yieldlabs-io/yield-ledger/internal/services"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the yield ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	var tokenClient tokenclient.TokenInterface
	tokenClient = tokenclient.NewTokenClient(&cfg.Token)
	tokenClient = tokenclient.NewTokenClientWithMetrics(tokenClient)

	var treasuryClient treasuryclient.TreasuryInterface
	treasuryClient = treasuryclient.NewTreasuryClient(&cfg.Treasury)
	treasuryClient = treasuryclient.NewTreasuryClientWithMetrics(treasuryClient)

	var authClient authclient.AuthInterface
	authClient = authclient.NewAuthClient(&cfg.Auth)
	authClient = authclient.NewAuthClientWithMetrics(authClient)

	qm, err := queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize queue manager")
	}
	defer qm.Shutdown()

	service := services.NewService(cfg, dbClient, tokenClient, treasuryClient, authClient, qm)

	apiServer := api.New(&cfg.Api, service)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("error while running api server")
		}
	}()

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	return service.StartLedgerSync(ctx)
}
