package entities

import "fmt"

// RepositoryIdentity uniquely identifies a repository on the forge.
type RepositoryIdentity struct {
	Owner string
	Name  string
}

func (r RepositoryIdentity) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Repository is a forge repository as returned by a lookup or listing call.
type Repository struct {
	ID            int64
	Name          string
	FullName      string
	Owner         string
	Description   string
	Private       bool
	Fork          bool
	Empty         bool
	DefaultBranch string
	HTMLURL       string
	CloneURL      string
	SSHURL        string
}

// Identity returns the (owner, name) pair of the repository.
func (r Repository) Identity() RepositoryIdentity {
	return RepositoryIdentity{Owner: r.Owner, Name: r.Name}
}

// Branch is a buildable head together with the commit it currently points at.
type Branch struct {
	Name       string
	CommitHash string
}

// Organization is a forge organization.
type Organization struct {
	Name      string
	FullName  string
	AvatarURL string
	HTMLURL   string
}

// User is a forge user account.
type User struct {
	ID        int64
	Username  string
	FullName  string
	Email     string
	AvatarURL string
}
