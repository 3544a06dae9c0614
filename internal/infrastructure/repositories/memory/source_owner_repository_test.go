//go:build unit

package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

func TestSourceOwnerRepository(t *testing.T) {
	t.Parallel()

	t.Run("should keep insertion order and replace on save", func(t *testing.T) {
		t.Parallel()

		// given
		repo := memory.NewSourceOwnerRepository()
		repo.Load([]entities.SourceOwner{{Name: "a"}, {Name: "b"}})

		// when
		created := repo.Save(entities.SourceOwner{Name: "a", Sources: []entities.TrackedSource{{Owner: "x"}}})
		owners, err := repo.All(context.Background())

		// then
		require.NoError(t, err)
		assert.False(t, created)
		require.Len(t, owners, 2)
		assert.Equal(t, "a", owners[0].Name)
		assert.Len(t, owners[0].Sources, 1)
	})

	t.Run("should return not found after delete", func(t *testing.T) {
		t.Parallel()

		// given
		repo := memory.NewSourceOwnerRepository()
		repo.Save(entities.SourceOwner{Name: "a"})

		// when
		deleted, ok := repo.Delete("a")
		_, err := repo.Get(context.Background(), "a")

		// then
		assert.True(t, ok)
		assert.Equal(t, "a", deleted.Name)
		require.ErrorIs(t, err, entities.ErrOwnerNotFound)
	})
}

func TestBuildQueueRepository(t *testing.T) {
	t.Parallel()

	t.Run("should report items that left the queue", func(t *testing.T) {
		t.Parallel()

		// given
		queue := memory.NewBuildQueueRepository()
		queue.Enqueue(1)
		queue.Enqueue(2)

		// when
		queue.Leave(2)

		// then
		assert.False(t, queue.HasLeft(context.Background(), 1))
		assert.True(t, queue.HasLeft(context.Background(), 2))
		assert.True(t, queue.HasLeft(context.Background(), 3))
	})
}
