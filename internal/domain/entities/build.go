package entities

// BuildResult is the terminal outcome of a build. The zero value means no result yet.
type BuildResult string

const (
	BuildResultNone     BuildResult = ""
	BuildResultSuccess  BuildResult = "SUCCESS"
	BuildResultUnstable BuildResult = "UNSTABLE"
	BuildResultFailure  BuildResult = "FAILURE"
	BuildResultAborted  BuildResult = "ABORTED"
	BuildResultNotBuilt BuildResult = "NOT_BUILT"
)

// Revision is the SCM revision a build recorded for its head.
type Revision interface {
	HeadName() string
}

// BranchRevision pins a branch head to a commit hash.
type BranchRevision struct {
	Head string
	Hash string
}

func (r BranchRevision) HeadName() string { return r.Head }

// Build is a build of one head of a source owner.
type Build struct {
	Number    int
	URL       string
	OwnerName string
	Revision  Revision
	Result    BuildResult
}

// QueuedBuild is a build waiting in the orchestrator's queue.
type QueuedBuild struct {
	QueueID   int64
	OwnerName string
	Head      string
	URL       string
}

// ProposedHead is a branch accepted by discovery, pinned to its current commit.
type ProposedHead struct {
	Owner      string
	Repository string
	Head       string
	Ref        string
	Hash       string
}

// PushEvent is the repository identity carried by an inbound forge payload.
type PushEvent struct {
	Event      string
	Owner      string
	Repository string
}
