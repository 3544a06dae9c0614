//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/giteasync/test/infrastructure/repositorydoubles"
)

type tagRevision struct{}

func (tagRevision) HeadName() string { return "v1.0.0" }

type statusFixture struct {
	spy      *doubles.SpyForgeRepository
	provider *doubles.StubForgeProvider
	queue    *doubles.StubBuildQueueRepository
	settings *entities.Settings
	cmd      *commands.StatusCommand
}

func newStatusFixture(source entities.TrackedSource) statusFixture {
	spy := &doubles.SpyForgeRepository{
		Branches: []entities.Branch{{Name: "main", CommitHash: "cafebabe"}},
	}
	provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
	owners := &doubles.StubSourceOwnerRepository{Owners: []entities.SourceOwner{
		{Name: "widgets-pipeline", Sources: []entities.TrackedSource{source}},
	}}
	queue := &doubles.StubBuildQueueRepository{Left: map[int64]bool{}}
	return statusFixture{
		spy:      spy,
		provider: provider,
		queue:    queue,
		settings: entitybuilders.NewSettingsBuilder().BuildSettings(),
		cmd:      commands.NewStatusCommand(provider, owners, queue),
	}
}

func completedBuild(result entities.BuildResult, revision entities.Revision) entities.Build {
	return entities.Build{
		Number:    42,
		URL:       "https://ci.example.com/job/widgets/42/",
		OwnerName: "widgets-pipeline",
		Revision:  revision,
		Result:    result,
	}
}

func TestStatusCommandOnCompleted(t *testing.T) {
	t.Parallel()

	t.Run("should set exactly one failure status on the built commit", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultFailure, entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.spy.Statuses, 1)
		recorded := fixture.spy.Statuses[0]
		assert.Equal(t, "deadbeef", recorded.SHA)
		assert.Equal(t, entities.StatusFailure, recorded.Options.State)
		assert.Equal(t, build.URL, recorded.Options.TargetURL)
		assert.Equal(t, entities.DefaultStatusContext, recorded.Options.Context)
		assert.NotEmpty(t, recorded.Options.Description)
		assert.Empty(t, fixture.spy.Issues)
	})

	t.Run("should open an issue when a failure label is configured", func(t *testing.T) {
		t.Parallel()

		// given
		source := entitybuilders.NewTrackedSourceBuilder().WithBuildFailureLabelID(9).BuildTrackedSource()
		fixture := newStatusFixture(source)
		build := completedBuild(entities.BuildResultFailure, &entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.spy.Issues, 1)
		assert.Equal(t, []int64{9}, fixture.spy.Issues[0].Labels)
		assert.Contains(t, fixture.spy.Issues[0].Title, "main")
	})

	t.Run("should not open an issue for successful builds", func(t *testing.T) {
		t.Parallel()

		// given
		source := entitybuilders.NewTrackedSourceBuilder().WithBuildFailureLabelID(9).BuildTrackedSource()
		fixture := newStatusFixture(source)
		build := completedBuild(entities.BuildResultSuccess, entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.spy.Statuses, 1)
		assert.Equal(t, entities.StatusSuccess, fixture.spy.Statuses[0].Options.State)
		assert.Empty(t, fixture.spy.Issues)
	})

	t.Run("should not call the forge when the build has no revision", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultSuccess, nil)

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.provider.Connections)
		assert.Empty(t, fixture.spy.Statuses)
	})

	t.Run("should return an error for an unrecognized revision", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultSuccess, tagRevision{})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.ErrorIs(t, err, entities.ErrUnrecognizedRevision)
		assert.Empty(t, fixture.spy.Statuses)
	})

	t.Run("should swallow forge failures", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		fixture.spy.StatusErr = errors.New("status 500")
		build := completedBuild(entities.BuildResultFailure, entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		assert.Len(t, fixture.spy.Statuses, 1)
	})

	t.Run("should ignore builds of untracked items", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultFailure, entities.BranchRevision{Head: "main", Hash: "deadbeef"})
		build.OwnerName = "unknown"

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.provider.Connections)
	})

	t.Run("should authenticate with the credentials of the source", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultSuccess, entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCompleted(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.provider.Connections, 1)
		conn := fixture.provider.Connections[0]
		assert.Equal(t, "acme", conn.Owner)
		assert.Equal(t, "widgets", conn.Repository)
		require.NotNil(t, conn.Credentials)
		assert.Equal(t, "ci-bot", conn.Credentials.Username)
	})
}

func TestStatusCommandOnCheckout(t *testing.T) {
	t.Parallel()

	t.Run("should set a pending status on the checked out revision", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		build := completedBuild(entities.BuildResultNone, entities.BranchRevision{Head: "main", Hash: "deadbeef"})

		// when
		err := fixture.cmd.OnCheckout(context.Background(), fixture.settings, build)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.spy.Statuses, 1)
		assert.Equal(t, entities.StatusPending, fixture.spy.Statuses[0].Options.State)
		assert.Equal(t, "deadbeef", fixture.spy.Statuses[0].SHA)
	})
}

func TestStatusCommandOnEnqueued(t *testing.T) {
	t.Parallel()

	t.Run("should set a pending status on the current head commit", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		item := entities.QueuedBuild{QueueID: 5, OwnerName: "widgets-pipeline", Head: "main", URL: "https://ci.example.com/queue/5"}

		// when
		err := fixture.cmd.OnEnqueued(context.Background(), fixture.settings, item)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.spy.Statuses, 1)
		assert.Equal(t, "cafebabe", fixture.spy.Statuses[0].SHA)
		assert.Equal(t, entities.StatusPending, fixture.spy.Statuses[0].Options.State)
	})

	t.Run("should not report when the item left the queue meanwhile", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		fixture.queue.Left[5] = true
		item := entities.QueuedBuild{QueueID: 5, OwnerName: "widgets-pipeline", Head: "main"}

		// when
		err := fixture.cmd.OnEnqueued(context.Background(), fixture.settings, item)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, fixture.spy.BranchLookups)
		assert.Empty(t, fixture.spy.Statuses)
	})

	t.Run("should not report when the branch is gone", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newStatusFixture(entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource())
		item := entities.QueuedBuild{QueueID: 5, OwnerName: "widgets-pipeline", Head: "feature-x"}

		// when
		err := fixture.cmd.OnEnqueued(context.Background(), fixture.settings, item)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.spy.Statuses)
	})
}

func TestCompletionStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result entities.BuildResult
		want   entities.StatusState
	}{
		{name: "success", result: entities.BuildResultSuccess, want: entities.StatusSuccess},
		{name: "unstable", result: entities.BuildResultUnstable, want: entities.StatusWarning},
		{name: "failure", result: entities.BuildResultFailure, want: entities.StatusFailure},
		{name: "no result", result: entities.BuildResultNone, want: entities.StatusPending},
		{name: "aborted", result: entities.BuildResultAborted, want: entities.StatusError},
		{name: "not built", result: entities.BuildResultNotBuilt, want: entities.StatusError},
	}

	for _, tt := range tests {
		t.Run("should map "+tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			state, description := commands.CompletionStatus(tt.result)

			// then
			assert.Equal(t, tt.want, state)
			assert.NotEmpty(t, description)
		})
	}
}

func TestRevisionHash(t *testing.T) {
	t.Parallel()

	t.Run("should treat a nil branch revision pointer as no revision", func(t *testing.T) {
		t.Parallel()

		// given
		var revision *entities.BranchRevision

		// when
		hash, err := commands.RevisionHash(revision)

		// then
		require.NoError(t, err)
		assert.Empty(t, hash)
	})
}
