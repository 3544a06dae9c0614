//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

func TestWildcardPatternMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expression string
		input      string
		want       bool
	}{
		{name: "star matches anything", expression: "*", input: "widgets", want: true},
		{name: "prefix term", expression: "exp*", input: "exp-parser", want: true},
		{name: "prefix term rejects other names", expression: "exp*", input: "main", want: false},
		{name: "whole name only", expression: "main", input: "main-old", want: false},
		{name: "suffix term", expression: "*-lts", input: "release-lts", want: true},
		{name: "any of several terms", expression: "main release/*", input: "release/1.2", want: true},
		{name: "extra whitespace between terms", expression: "  main \t dev ", input: "dev", want: true},
		{name: "regex metacharacters are literal", expression: "v1.0", input: "v1x0", want: false},
		{name: "literal dot matches", expression: "v1.0", input: "v1.0", want: true},
		{name: "empty expression matches nothing", expression: "", input: "main", want: false},
		{name: "blank expression matches nothing", expression: "   ", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run("should handle "+tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			pattern, err := entities.CompileWildcardPattern(tt.expression)
			require.NoError(t, err)

			// when
			got := pattern.Matches(tt.input)

			// then
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should not match on a nil pattern", func(t *testing.T) {
		t.Parallel()

		// given
		var pattern *entities.WildcardPattern

		// when
		got := pattern.Matches("main")

		// then
		assert.False(t, got)
		assert.Empty(t, pattern.String())
	})
}

func TestDiscoveryFilter(t *testing.T) {
	t.Parallel()

	t.Run("should include every repository by default", func(t *testing.T) {
		t.Parallel()

		// given
		filter, err := entities.NewDiscoveryFilter("", "", nil)
		require.NoError(t, err)

		// when
		included := filter.Included("anything")
		excluded := filter.Excluded("anything")

		// then
		assert.True(t, included)
		assert.False(t, excluded)
		assert.Nil(t, filter.Criteria)
	})

	t.Run("should fall back to every repository when includes is blank", func(t *testing.T) {
		t.Parallel()

		// given
		filter, err := entities.NewDiscoveryFilter("   ", "", nil)
		require.NoError(t, err)

		// when
		included := filter.Included("widgets")

		// then
		assert.True(t, included)
	})

	t.Run("should filter branch names with the includes of a tracked source", func(t *testing.T) {
		t.Parallel()

		// given
		filter, err := entities.NewBranchFilter("main release-*", "", nil)
		require.NoError(t, err)

		// when
		main := filter.BranchIncluded("main")
		release := filter.BranchIncluded("release-2.1")
		feature := filter.BranchIncluded("feature-x")

		// then
		assert.True(t, main)
		assert.True(t, release)
		assert.False(t, feature)
		assert.True(t, filter.Included("any-repository"))
	})

	t.Run("should include every branch when the source includes is blank", func(t *testing.T) {
		t.Parallel()

		// given
		filter, err := entities.NewBranchFilter(" ", "", nil)
		require.NoError(t, err)

		// when
		included := filter.BranchIncluded("feature-x")

		// then
		assert.True(t, included)
	})

	t.Run("should build path criteria from the configured paths", func(t *testing.T) {
		t.Parallel()

		// when
		filter, err := entities.NewDiscoveryFilter("*", "", []string{"Jenkinsfile"})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.PathCriteria{"Jenkinsfile"}, filter.Criteria)
	})
}
