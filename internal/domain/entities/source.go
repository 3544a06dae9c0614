package entities

import (
	"context"
	"fmt"
	"strings"
)

// SourceKind tags the kind of a tracked source.
type SourceKind string

const (
	// SourceKindGitea is a source backed by the forge API.
	SourceKindGitea SourceKind = "gitea"
	// SourceKindGit is a plain git remote; the forge integration ignores it.
	SourceKindGit SourceKind = "git"
)

// DefaultIncludes matches every repository or branch name.
const DefaultIncludes = "*"

// Probe answers questions about the content of one branch.
type Probe interface {
	Name() string
	Ref() string
	Exists(ctx context.Context, path string) bool
}

// SourceCriteria decides whether a probed branch is buildable.
type SourceCriteria interface {
	IsHead(ctx context.Context, probe Probe) (bool, error)
}

// PathCriteria accepts a branch when all of its paths exist.
type PathCriteria []string

func (c PathCriteria) IsHead(ctx context.Context, probe Probe) (bool, error) {
	for _, path := range c {
		if !probe.Exists(ctx, path) {
			return false, nil
		}
	}
	return true, nil
}

// DiscoveryFilter holds the compiled filters of a navigator or tracked source.
// Includes filters repository names for a navigator, BranchIncludes filters branch
// names for a tracked source. A nil include matches everything, a nil Excludes
// nothing, a nil Criteria accepts every branch.
type DiscoveryFilter struct {
	Includes       *WildcardPattern
	BranchIncludes *WildcardPattern
	Excludes       *WildcardPattern
	Criteria       SourceCriteria
}

// NewDiscoveryFilter compiles the repository include and branch exclude expressions of a navigator.
func NewDiscoveryFilter(includes, excludes string, criteria []string) (DiscoveryFilter, error) {
	includePattern, err := compileIncludes(includes)
	if err != nil {
		return DiscoveryFilter{}, err
	}
	return newFilter(excludes, criteria, func(filter *DiscoveryFilter) { filter.Includes = includePattern })
}

// NewBranchFilter compiles the branch include and exclude expressions of a tracked source.
func NewBranchFilter(includes, excludes string, criteria []string) (DiscoveryFilter, error) {
	includePattern, err := compileIncludes(includes)
	if err != nil {
		return DiscoveryFilter{}, err
	}
	return newFilter(excludes, criteria, func(filter *DiscoveryFilter) { filter.BranchIncludes = includePattern })
}

func compileIncludes(includes string) (*WildcardPattern, error) {
	if strings.TrimSpace(includes) == "" {
		includes = DefaultIncludes
	}
	pattern, err := CompileWildcardPattern(includes)
	if err != nil {
		return nil, &ConfigurationError{Field: fmt.Sprintf("includes %q", includes), Err: err}
	}
	return pattern, nil
}

func newFilter(excludes string, criteria []string, withIncludes func(*DiscoveryFilter)) (DiscoveryFilter, error) {
	excludePattern, err := CompileWildcardPattern(excludes)
	if err != nil {
		return DiscoveryFilter{}, &ConfigurationError{Field: fmt.Sprintf("excludes %q", excludes), Err: err}
	}

	filter := DiscoveryFilter{Excludes: excludePattern}
	withIncludes(&filter)
	if len(criteria) > 0 {
		filter.Criteria = PathCriteria(criteria)
	}
	return filter, nil
}

// Included reports whether a repository name passes the include pattern.
func (f DiscoveryFilter) Included(name string) bool {
	if f.Includes == nil {
		return true
	}
	return f.Includes.Matches(name)
}

// BranchIncluded reports whether a branch name passes the branch include pattern.
func (f DiscoveryFilter) BranchIncluded(name string) bool {
	if f.BranchIncludes == nil {
		return true
	}
	return f.BranchIncludes.Matches(name)
}

// Excluded reports whether a branch name is excluded.
func (f DiscoveryFilter) Excluded(name string) bool {
	return f.Excludes.Matches(name)
}

// TrackedSource is one configured reference to a repository.
type TrackedSource struct {
	Kind                SourceKind `yaml:"kind"`
	Owner               string     `yaml:"owner"`
	Repository          string     `yaml:"repository"`
	CredentialsID       string     `yaml:"credentials_id"`
	AutoRegisterHook    bool       `yaml:"auto_register_hook"`
	Includes            string     `yaml:"includes"`
	Excludes            string     `yaml:"excludes"`
	Criteria            []string   `yaml:"criteria"`
	BuildFailureLabelID int64      `yaml:"build_failure_label_id"`

	Filter DiscoveryFilter `yaml:"-"`
}

func (s TrackedSource) Identity() RepositoryIdentity {
	return RepositoryIdentity{Owner: s.Owner, Name: s.Repository}
}

// IsForgeBacked reports whether the source is served by the forge API.
func (s TrackedSource) IsForgeBacked() bool {
	return s.Kind == SourceKindGitea
}

// IsHookManaged reports whether the forge webhook of the source is managed automatically.
func (s TrackedSource) IsHookManaged() bool {
	return s.IsForgeBacked() && s.AutoRegisterHook
}

// SourceOwner is a configured item owning tracked sources, e.g. a multibranch pipeline.
type SourceOwner struct {
	Name    string          `yaml:"name"`
	Sources []TrackedSource `yaml:"sources"`
}

// HookManagedSources returns the sources whose webhook is managed automatically.
func (o SourceOwner) HookManagedSources() []TrackedSource {
	var sources []TrackedSource
	for _, source := range o.Sources {
		if source.IsHookManaged() {
			sources = append(sources, source)
		}
	}
	return sources
}

// References reports whether any forge-backed source of the owner points at identity.
func (o SourceOwner) References(identity RepositoryIdentity) bool {
	for _, source := range o.Sources {
		if source.IsForgeBacked() && source.Identity() == identity {
			return true
		}
	}
	return false
}

// ForgeSource returns the first forge-backed source of the owner.
func (o SourceOwner) ForgeSource() (TrackedSource, bool) {
	for _, source := range o.Sources {
		if source.IsForgeBacked() {
			return source, true
		}
	}
	return TrackedSource{}, false
}

// Navigator scans every repository of an organization or user.
type Navigator struct {
	Owner             string   `yaml:"owner"`
	CredentialsID     string   `yaml:"credentials_id"`
	Includes          string   `yaml:"includes"`
	Excludes          string   `yaml:"excludes"`
	Criteria          []string `yaml:"criteria"`
	AutoRegisterHooks bool     `yaml:"auto_register_hooks"`

	Filter DiscoveryFilter `yaml:"-"`
}
