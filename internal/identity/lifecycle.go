package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
	"github.com/dawn1811/Rok-Manager/internal/store"
)

// Lifecycle wraps a RegistryStore with the run-scoped load/save policy:
// load once at run start, save once at run end, no partial persistence in
// between.
type Lifecycle struct {
	store store.RegistryStore
	log   *zap.Logger
}

// NewLifecycle creates a registry lifecycle around the given store.
func NewLifecycle(st store.RegistryStore, log *zap.Logger) *Lifecycle {
	return &Lifecycle{store: st, log: log}
}

// Load fetches the whole registry. A read failure degrades to an empty
// registry so the run can proceed, but is a data-loss risk: saving at run
// end will overwrite whatever the store held. The degraded flag must reach
// the operator, which is why it is returned rather than only logged.
func (l *Lifecycle) Load(ctx context.Context) (reg *domain.Registry, degraded bool) {
	reg, err := l.store.Load(ctx)
	if err != nil {
		l.log.Warn("Failed to load entity registry, starting from empty; saving this run will overwrite stored identity history",
			zap.Error(err))
		return domain.NewRegistry(), true
	}
	l.log.Info("Loaded entity registry", zap.Int("entity_count", reg.Len()))
	return reg, false
}

// Save writes the whole registry as one replacing operation.
func (l *Lifecycle) Save(ctx context.Context, reg *domain.Registry) error {
	if err := l.store.Save(ctx, reg); err != nil {
		return fmt.Errorf("failed to save entity registry: %w", err)
	}
	l.log.Info("Saved entity registry", zap.Int("entity_count", reg.Len()))
	return nil
}
