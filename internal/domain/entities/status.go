package entities

// StatusState is the commit status state understood by the forge.
type StatusState string

const (
	StatusPending StatusState = "pending"
	StatusSuccess StatusState = "success"
	StatusError   StatusState = "error"
	StatusFailure StatusState = "failure"
	StatusWarning StatusState = "warning"
)

// DefaultStatusContext is used when the settings do not name a status context.
const DefaultStatusContext = "continuous-integration/giteasync/branch"

// StatusOptions is the body of a commit status creation.
type StatusOptions struct {
	State       StatusState
	TargetURL   string
	Description string
	Context     string
}

// Issue is the body of an issue creation.
type Issue struct {
	Title  string
	Body   string
	Labels []int64
}
