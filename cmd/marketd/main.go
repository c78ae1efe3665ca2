package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/chro-network/chro-marketplace/internal/config"
	"github.com/chro-network/chro-marketplace/internal/core/application"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/jobrunner"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/ledger"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/pubsub"
	httpinterface "github.com/chro-network/chro-marketplace/internal/interfaces/http"
	"github.com/chro-network/chro-marketplace/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}

	var (
		datadir       = config.GetDatadir()
		dbType        = config.GetString(config.DBTypeKey)
		feeScale      = config.GetUint32(config.FeeScaleKey)
		listenAddress = fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey))
		statsInterval = config.GetDuration(config.StatsIntervalKey)
	)

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if statsInterval > 0 {
		stats.EnableMemoryStatistics(ctx, statsInterval)
	}

	ledgers, err := ledger.NewLedgers(
		feeScale,
		config.GetString(config.EscrowAccountKey),
		config.GetString(config.LedgerGenesisFileKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize ledgers")
	}

	pubsubDir := ""
	if dbType == application.DBBadger {
		pubsubDir = datadir
	}
	webhookSvc, err := pubsub.NewService(
		pubsubDir,
		config.GetDuration(config.WebhookTimeoutKey),
		config.GetInt(config.WebhookRateLimitKey),
		log.New(),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize webhook pubsub")
	}
	hub := pubsub.NewHub()

	appConfig := &application.Config{
		DBType:       dbType,
		DBConfig:     config.GetDbDir(),
		AssetLedger:  ledgers.AssetRegistry,
		TokenLedger:  ledgers.TokenLedger,
		SecurePubSub: pubsub.WithHub(webhookSvc, hub),
		FeeScale:     feeScale,
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}

	runner := jobrunner.New(ctx)
	if err := runner.Add(
		"settlement", config.GetString(config.JobScheduleKey),
		func(ctx context.Context) error {
			report, err := appConfig.MarketplaceService().ExecuteJob(ctx)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"settled":   len(report.Settled),
				"cancelled": len(report.Cancelled),
				"expired":   len(report.Expired),
				"skipped":   len(report.Skipped),
			}).Info("settlement job completed")
			return nil
		},
	); err != nil {
		log.WithError(err).Fatal("failed to schedule settlement job")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:        listenAddress,
		AuthSecret:     config.GetString(config.AuthSecretKey),
		EnableMetrics:  config.GetBool(config.EnableMetricsKey),
		MarketplaceSvc: appConfig.MarketplaceService(),
		OperatorSvc:    appConfig.OperatorService(),
		Ledger:         ledgers,
		EventStream:    hub,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}

	log.RegisterExitHandler(func() {
		svc.Stop()
		runner.Stop()
		appConfig.PubSubService().Close()
		appConfig.RepoManager().Close()
	})

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	runner.Start()

	log.Info("marketplace daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down daemon")
	log.Exit(0)
}
