//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// TrackedSourceBuilder helps create tracked sources with a fluent interface.
type TrackedSourceBuilder struct {
	*testkit.BaseBuilder
	kind                entities.SourceKind
	owner               string
	repository          string
	credentialsID       string
	autoRegisterHook    bool
	includes            string
	excludes            string
	criteria            []string
	buildFailureLabelID int64
}

// NewTrackedSourceBuilder creates a new builder for a hook-managed forge source.
func NewTrackedSourceBuilder() *TrackedSourceBuilder {
	return &TrackedSourceBuilder{
		BaseBuilder:      testkit.NewBaseBuilder(),
		kind:             entities.SourceKindGitea,
		owner:            "acme",
		repository:       "widgets",
		credentialsID:    "bot",
		autoRegisterHook: true,
	}
}

// WithKind sets the source kind.
func (b *TrackedSourceBuilder) WithKind(kind entities.SourceKind) *TrackedSourceBuilder {
	b.kind = kind
	return b
}

// WithRepository sets the repository owner and name.
func (b *TrackedSourceBuilder) WithRepository(owner, repository string) *TrackedSourceBuilder {
	b.owner = owner
	b.repository = repository
	return b
}

// WithCredentialsID sets the credentials reference.
func (b *TrackedSourceBuilder) WithCredentialsID(credentialsID string) *TrackedSourceBuilder {
	b.credentialsID = credentialsID
	return b
}

// WithAutoRegisterHook toggles webhook management.
func (b *TrackedSourceBuilder) WithAutoRegisterHook(enabled bool) *TrackedSourceBuilder {
	b.autoRegisterHook = enabled
	return b
}

// WithIncludes sets the branch include expression.
func (b *TrackedSourceBuilder) WithIncludes(includes string) *TrackedSourceBuilder {
	b.includes = includes
	return b
}

// WithExcludes sets the branch exclude expression.
func (b *TrackedSourceBuilder) WithExcludes(excludes string) *TrackedSourceBuilder {
	b.excludes = excludes
	return b
}

// WithCriteria sets the paths a branch must contain.
func (b *TrackedSourceBuilder) WithCriteria(paths ...string) *TrackedSourceBuilder {
	b.criteria = paths
	return b
}

// WithBuildFailureLabelID sets the label of build failure issues.
func (b *TrackedSourceBuilder) WithBuildFailureLabelID(labelID int64) *TrackedSourceBuilder {
	b.buildFailureLabelID = labelID
	return b
}

// Build creates the source (satisfies testkit.Builder interface).
func (b *TrackedSourceBuilder) Build() interface{} {
	return b.BuildTrackedSource()
}

// BuildTrackedSource creates the source with its filter compiled.
func (b *TrackedSourceBuilder) BuildTrackedSource() entities.TrackedSource {
	filter, err := entities.NewBranchFilter(b.includes, b.excludes, b.criteria)
	if err != nil {
		panic(err)
	}
	return entities.TrackedSource{
		Kind:                b.kind,
		Owner:               b.owner,
		Repository:          b.repository,
		CredentialsID:       b.credentialsID,
		AutoRegisterHook:    b.autoRegisterHook,
		Includes:            b.includes,
		Excludes:            b.excludes,
		Criteria:            b.criteria,
		BuildFailureLabelID: b.buildFailureLabelID,
		Filter:              filter,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *TrackedSourceBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.kind = entities.SourceKindGitea
	b.owner = "acme"
	b.repository = "widgets"
	b.credentialsID = "bot"
	b.autoRegisterHook = true
	b.includes = ""
	b.excludes = ""
	b.criteria = nil
	b.buildFailureLabelID = 0
	return b
}

// Clone creates a deep copy of the TrackedSourceBuilder.
func (b *TrackedSourceBuilder) Clone() testkit.Builder {
	return &TrackedSourceBuilder{
		BaseBuilder:         b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		kind:                b.kind,
		owner:               b.owner,
		repository:          b.repository,
		credentialsID:       b.credentialsID,
		autoRegisterHook:    b.autoRegisterHook,
		includes:            b.includes,
		excludes:            b.excludes,
		criteria:            append([]string(nil), b.criteria...),
		buildFailureLabelID: b.buildFailureLabelID,
	}
}
