package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/catalog-core/internal/api"
	"github.com/joestump/catalog-core/internal/catalog"
	"github.com/joestump/catalog-core/internal/config"
	"github.com/joestump/catalog-core/internal/db"
	"github.com/joestump/catalog-core/internal/metrics"
	"github.com/joestump/catalog-core/internal/schema"
	"github.com/joestump/catalog-core/internal/slug"
	"github.com/joestump/catalog-core/internal/store"
	"github.com/joestump/catalog-core/internal/variant"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cfg.NewLogger()

			database, err := db.Open(cmd.Context(), cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			slugs, err := slug.NewService(cfg.Slug)
			if err != nil {
				return err
			}
			slugs.OnCheck = metrics.ObserveSlugCheck

			records := store.NewRecordStore(database)
			svc := catalog.NewService(catalog.Deps{
				Products:    store.NewProductStore(database, records),
				Types:       store.NewProductTypeStore(database, records),
				Slugs:       slugs,
				Schemas:     schema.NewValidator(schema.NewDraft7()),
				Variants:    variant.NewValidator(),
				Logger:      log,
				SaveRetries: cfg.Catalog.SaveRetries,
			})

			srv := &http.Server{
				Addr: cfg.HTTP.Addr,
				Handler: api.NewRouter(api.Deps{
					Catalog:   svc,
					Logger:    log,
					RateLimit: cfg.API.RateLimit,
					Burst:     cfg.API.Burst,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", cfg.HTTP.Addr).Info("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
