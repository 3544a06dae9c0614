package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/giteasync/internal/domain/repositories"
	giteaRepo "github.com/rios0rios0/giteasync/internal/infrastructure/repositories/gitea"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/markers"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register forge registry with all forge factories
	if err := container.Provide(func() *ForgeRegistry {
		reg := NewForgeRegistry()
		reg.Register("gitea", giteaRepo.NewForgeRepository)
		return reg
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ForgeRegistry) domainRepos.ForgeProvider {
		return impl
	}); err != nil {
		return err
	}

	// Register marker backends
	if err := container.Provide(markers.NewHookMarkerRegistry); err != nil {
		return err
	}
	if err := container.Provide(func(impl *markers.HookMarkerRegistry) domainRepos.HookMarkerProvider {
		return impl
	}); err != nil {
		return err
	}

	// Register in-memory stores shared by commands and controllers
	if err := container.Provide(memory.NewSourceOwnerRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *memory.SourceOwnerRepository) domainRepos.SourceOwnerRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(memory.NewBuildQueueRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *memory.BuildQueueRepository) domainRepos.BuildQueueRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
