//go:build unit

package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

func TestBuildQueueRepository(t *testing.T) {
	t.Parallel()

	t.Run("should report an enqueued item as waiting until it leaves", func(t *testing.T) {
		t.Parallel()

		// given
		repo := memory.NewBuildQueueRepository()
		repo.Enqueue(7)

		// when
		before := repo.HasLeft(context.Background(), 7)
		repo.Leave(7)
		after := repo.HasLeft(context.Background(), 7)

		// then
		assert.False(t, before)
		assert.True(t, after)
	})

	t.Run("should consider an unknown item as gone", func(t *testing.T) {
		t.Parallel()

		// given
		repo := memory.NewBuildQueueRepository()

		// when
		left := repo.HasLeft(context.Background(), 42)

		// then
		assert.True(t, left)
	})
}
