package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/core/services"
	"github.com/SscSPs/treasury_app/internal/platform/cache"
	"github.com/SscSPs/treasury_app/internal/platform/config"
	"github.com/SscSPs/treasury_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/treasury_app/internal/repositories/memory"
	"github.com/SscSPs/treasury_app/pkg/database"
)

// backend is an opened storage driver. close releases it.
type backend struct {
	repos portsrepo.RepositoryProvider
	close func()
}

// openBackend connects the configured storage driver. For postgres the schema is
// migrated up first when migrate is set.
func openBackend(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		slog.WarnContext(ctx, "Using in-memory storage, data is lost on exit")
		return &backend{repos: memory.NewRepositoryProvider(), close: func() {}}, nil
	case config.StoragePostgres:
		if migrate {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.Up); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("initializing database pool: %w", err)
		}
		return &backend{
			repos: pgsql.NewRepositoryProvider(pool),
			close: func() { database.ClosePgxPool(pool) },
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// processCaches builds the caches owned by one process run. The returned func closes them.
func processCaches(cfg *config.Config) (services.Caches, func(), error) {
	opts := cache.Options{MaxEntries: cfg.CacheMaxEntries, TTL: cfg.CacheTTL}
	summaries, err := cache.New[string, domain.ReconciliationSummary](opts)
	if err != nil {
		return services.Caches{}, nil, fmt.Errorf("creating summary cache: %w", err)
	}
	names, err := cache.New[string, string](opts)
	if err != nil {
		summaries.Close()
		return services.Caches{}, nil, fmt.Errorf("creating user name cache: %w", err)
	}
	closeAll := func() {
		summaries.Close()
		names.Close()
	}
	return services.Caches{Summaries: summaries, UserNames: names}, closeAll, nil
}

// newContainer wires every service on top of b.
func newContainer(b *backend, caches services.Caches) *portssvc.ServiceContainer {
	return services.NewServiceContainer(b.repos, caches)
}
