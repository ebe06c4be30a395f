package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/store"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	return st, nil
}

// initGateway returns nil when no server is configured. Callers that
// require the server should treat a nil client as unconfigured.
func initGateway() gateway.Client {
	if cfg.Server.URL == "" || cfg.Server.APIKey == "" {
		return nil
	}
	return gateway.NewClient(cfg.Server.URL, cfg.Server.APIKey)
}
