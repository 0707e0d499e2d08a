package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"copysmith/internal/adgen"
	"copysmith/internal/api"
	"copysmith/internal/auth"
	"copysmith/internal/config"
	"copysmith/internal/db"
	"copysmith/internal/handler"
	"copysmith/internal/liked"
	"copysmith/internal/metrics"
	"copysmith/internal/ratelimit"
	"copysmith/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			generator, err := adgen.New(cfg)
			if err != nil {
				return err
			}

			limiter := ratelimit.New(cfg.RateLimit.Max, cfg.RateLimit.Window)

			var router http.Handler
			switch cfg.Store.Backend {
			case "local":
				router, err = buildLocalRouter(cfg, generator, limiter)
			default:
				router, err = buildSQLRouter(cfg, generator, limiter)
			}
			if err != nil {
				return err
			}

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

// buildSQLRouter wires the multi-user server: SQL store, OIDC login,
// sessions, API tokens, and generation history.
func buildSQLRouter(cfg *config.Config, generator adgen.Generator, limiter *ratelimit.Limiter) (http.Handler, error) {
	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		return nil, err
	}

	sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime)

	ctx := context.Background()
	oidcProvider, err := auth.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userStore := store.NewUserStore(database)
	headlineStore := store.NewSQLHeadlineStore(database)
	generationStore := store.NewGenerationStore(database)
	tokenStore := auth.NewSQLTokenStore(database)

	genCh := make(chan store.GenerationEvent, 256)
	go runGenerationWriter(ctx, genCh, generationStore)

	authHandlers := auth.NewHandlers(oidcProvider, sessionManager, userStore, cfg.AdminEmail)
	apiAuth := auth.NewAPIAuthMiddleware(tokenStore, sessionManager, userStore)

	return handler.NewRouter(handler.Deps{
		SessionManager: sessionManager,
		AuthHandlers:   authHandlers,
		API: api.Deps{
			Authenticate:    apiAuth.Authenticate,
			Liked:           liked.NewFacade(headlineStore),
			Generator:       generator,
			Provider:        cfg.AdGen.Provider,
			Generations:     genCh,
			GenerationStats: generationStore,
			Tokens:          tokenStore,
			RateLimit:       limiter,
		},
	}), nil
}

// buildLocalRouter wires the single-user server: embedded badger store, a
// fixed identity instead of login, no tokens, no generation history.
func buildLocalRouter(cfg *config.Config, generator adgen.Generator, limiter *ratelimit.Limiter) (http.Handler, error) {
	headlineStore, err := store.OpenBadgerHeadlineStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	return handler.NewRouter(handler.Deps{
		API: api.Deps{
			Authenticate: auth.StaticIdentity(cfg.LocalOwner),
			Liked:        liked.NewFacade(headlineStore),
			Generator:    generator,
			Provider:     cfg.AdGen.Provider,
			RateLimit:    limiter,
		},
	}), nil
}

// runGenerationWriter reads generation events from the channel and persists
// them. On context cancellation it drains remaining events before returning.
func runGenerationWriter(ctx context.Context, ch <-chan store.GenerationEvent, gs *store.GenerationStore) {
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := gs.Record(ctx, e); err != nil {
				metrics.GenerationRecordErrorsTotal.Inc()
				log.Printf("generation write error: %v", err)
			}
		case <-ctx.Done():
			// Drain remaining events.
			for {
				select {
				case e, ok := <-ch:
					if !ok {
						return
					}
					if err := gs.Record(context.Background(), e); err != nil {
						metrics.GenerationRecordErrorsTotal.Inc()
						log.Printf("generation drain error: %v", err)
					}
				default:
					return
				}
			}
		}
	}
}
