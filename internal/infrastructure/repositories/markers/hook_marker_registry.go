package markers

import (
	"context"
	"fmt"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// MarkerFactory opens a marker store. The returned function releases it.
type MarkerFactory func(
	ctx context.Context,
	settings entities.MarkerSettings,
) (repositories.HookMarkerRepository, func(), error)

// HookMarkerRegistry opens marker stores by backend name.
type HookMarkerRegistry struct {
	backends map[string]MarkerFactory
}

var _ repositories.HookMarkerProvider = (*HookMarkerRegistry)(nil)

// NewHookMarkerRegistry creates a registry with the file, NATS and PostgreSQL backends.
func NewHookMarkerRegistry() *HookMarkerRegistry {
	registry := &HookMarkerRegistry{backends: make(map[string]MarkerFactory)}
	registry.Register(entities.MarkerBackendFile, openFile)
	registry.Register(entities.MarkerBackendNATS, openNATS)
	registry.Register(entities.MarkerBackendPostgres, openPostgres)
	return registry
}

// Register adds a backend factory.
func (r *HookMarkerRegistry) Register(backend string, factory MarkerFactory) {
	r.backends[backend] = factory
}

func (r *HookMarkerRegistry) Open(
	ctx context.Context,
	settings entities.MarkerSettings,
) (repositories.HookMarkerRepository, func(), error) {
	factory, ok := r.backends[settings.Backend]
	if !ok {
		return nil, nil, fmt.Errorf("unknown marker backend: %q", settings.Backend)
	}
	return factory(ctx, settings)
}

func openFile(_ context.Context, settings entities.MarkerSettings) (repositories.HookMarkerRepository, func(), error) {
	return NewFileHookMarkerRepository(settings.Path), func() {}, nil
}

func openNATS(ctx context.Context, settings entities.MarkerSettings) (repositories.HookMarkerRepository, func(), error) {
	store, err := NewNATSHookMarkerRepository(ctx, settings.URL, settings.Bucket)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func openPostgres(
	ctx context.Context,
	settings entities.MarkerSettings,
) (repositories.HookMarkerRepository, func(), error) {
	store, err := NewPostgresHookMarkerRepository(ctx, settings.URL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
