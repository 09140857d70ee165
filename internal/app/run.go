// Package app wires configuration, logging, storage, the payment provider
// and the HTTP server together.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vendrhub/klarna-hpp/internal/config"
	"github.com/vendrhub/klarna-hpp/internal/provider"
	"github.com/vendrhub/klarna-hpp/internal/server"
	"github.com/vendrhub/klarna-hpp/internal/server/checkout"
	"github.com/vendrhub/klarna-hpp/internal/storage/postgres"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

func Run(ctx context.Context) error {
	configPath := os.Getenv("KLARNA_HPP_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log.Debug("logger debug enabled...")

	pool, err := postgres.NewPool(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	prov, err := provider.New(providerSettings(cfg.Klarna), log)
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to init payment provider: %w", err)
	}

	handler := checkout.NewHandler(prov, postgres.NewCheckoutRepository(pool.Pool), checkout.Config{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		ContinueURL:   cfg.Klarna.ContinueURL,
		CancelURL:     cfg.Klarna.CancelURL,
	}, log)

	srv := server.New(cfg.Server, handler, log)

	serverErr := make(chan error, 1)
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	err = gracefulShutdown(ctx, log, pool, serverErr, cancel)
	if err != nil {
		return err
	}

	return nil
}

// providerSettings maps the loaded configuration onto the provider's
// settings catalogue.
func providerSettings(k config.KlarnaConfig) provider.HppSettings {
	return provider.HppSettings{
		Settings: provider.Settings{
			ContinueURL: k.ContinueURL,
			CancelURL:   k.CancelURL,
			ErrorURL:    k.ErrorURL,

			BillingAddressLine1PropertyAlias:   k.BillingAddressLine1PropertyAlias,
			BillingAddressLine2PropertyAlias:   k.BillingAddressLine2PropertyAlias,
			BillingAddressCityPropertyAlias:    k.BillingAddressCityPropertyAlias,
			BillingAddressStatePropertyAlias:   k.BillingAddressStatePropertyAlias,
			BillingAddressZipCodePropertyAlias: k.BillingAddressZipCodePropertyAlias,
			ProductTypePropertyAlias:           k.ProductTypePropertyAlias,

			APIRegion:       k.APIRegion,
			TestAPIUsername: k.TestAPIUsername,
			TestAPIPassword: k.TestAPIPassword,
			LiveAPIUsername: k.LiveAPIUsername,
			LiveAPIPassword: k.LiveAPIPassword,
			Capture:         k.Capture,
			TestMode:        k.TestMode,

			PaymentPageLogoURL:      k.PaymentPageLogoURL,
			PaymentPagePageTitle:    k.PaymentPagePageTitle,
			PaymentMethodCategories: k.PaymentMethodCategories,
			PaymentMethodCategory:   k.PaymentMethodCategory,
			EnableFallbacks:         k.EnableFallbacks,
		},
		FeeLabelTemplate:    k.FeeLabelTemplate,
		DiscountsLabel:      k.DiscountsLabel,
		AdditionalFeesLabel: k.AdditionalFeesLabel,
	}
}
