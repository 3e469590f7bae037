package main

import (
	"context"
	"fmt"

	"subscription-ledger/config"
	"subscription-ledger/internal/adapter/storage/memory"
	pgStorage "subscription-ledger/internal/adapter/storage/postgres"
	"subscription-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// stores bundles the repositories of one record store backend.
type stores struct {
	protocol      ports.ProtocolConfigRepository
	wallets       ports.WalletRepository
	vaults        ports.VaultRepository
	plans         ports.PlanRepository
	subscriptions ports.SubscriptionRepository
	sessionTokens ports.SessionTokenRepository
	balances      ports.BalanceRepository
	ledger        ports.LedgerRepository
	events        ports.EventRepository
	webhooks      ports.WebhookRepository
	analytics     ports.AnalyticsRepository
	transactor    ports.DBTransactor
	health        []ports.HealthChecker
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory record store, state is lost on restart")
		s := memory.NewStore()
		return &stores{
			protocol:      memory.NewProtocolConfigRepo(s),
			wallets:       memory.NewWalletRepo(s),
			vaults:        memory.NewVaultRepo(s),
			plans:         memory.NewPlanRepo(s),
			subscriptions: memory.NewSubscriptionRepo(s),
			sessionTokens: memory.NewSessionTokenRepo(s),
			balances:      memory.NewBalanceRepo(s),
			ledger:        memory.NewLedgerRepo(s),
			events:        memory.NewEventRepo(s),
			webhooks:      memory.NewWebhookRepo(s),
			analytics:     memory.NewAnalyticsRepo(s),
			transactor:    s,
			health:        []ports.HealthChecker{s},
			close:         func() {},
		}, nil
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := pgStorage.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("Database schema applied")
		}
		transactor, err := pgStorage.NewTransactor(pool, cfg.Database.Isolation)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			protocol:      pgStorage.NewProtocolConfigRepo(pool),
			wallets:       pgStorage.NewWalletRepo(pool),
			vaults:        pgStorage.NewVaultRepo(pool),
			plans:         pgStorage.NewPlanRepo(pool),
			subscriptions: pgStorage.NewSubscriptionRepo(pool),
			sessionTokens: pgStorage.NewSessionTokenRepo(pool),
			balances:      pgStorage.NewBalanceRepo(pool),
			ledger:        pgStorage.NewLedgerRepo(pool),
			events:        pgStorage.NewEventRepo(pool),
			webhooks:      pgStorage.NewWebhookRepo(pool),
			analytics:     pgStorage.NewAnalyticsRepo(pool),
			transactor:    transactor,
			health:        []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
			close:         pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
