package model

// Repository is an immutable snapshot of repository metadata taken at fetch time.
type Repository struct {
	ID          int64
	Owner       string
	Name        string
	Description string
	Stars       int
	Forks       int
	Watchers    int
}

// FullName returns the canonical "owner/name" form.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
