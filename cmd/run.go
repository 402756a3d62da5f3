package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/app"
	"github.com/HeoJaeryoung/aice-project/internal/auth"
	"github.com/HeoJaeryoung/aice-project/internal/config"
)

// buildDeps constructs the API client and auth store from config. The
// two reference each other (the client reads the bearer token from the
// store, the store issues requests through the client), so the client
// closes over the store variable assigned right after.
func buildDeps() (*api.Client, *auth.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	tokenPath, err := auth.DefaultTokenPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve token path: %w", err)
	}
	tokens := auth.NewTokenFile(tokenPath)

	var store *auth.Store
	client := api.New(cfg.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if store == nil {
				return ""
			}
			return store.Token()
		})),
		api.WithUnauthorizedHook(func() {
			if store != nil {
				store.HandleUnauthorized()
			}
		}),
	)
	store = auth.NewStore(client, tokens)

	return client, store, nil
}

// runApp restores any saved session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	client, store, err := buildDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	store.CheckAuth(ctx)

	return app.Run(app.Options{Client: client, Store: store})
}
