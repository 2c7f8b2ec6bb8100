package repos

import "time"

// ListParams is the shared filter for list queries. Limit <= 0 means no
// page window; the returned total always counts the full filtered set.
type ListParams struct {
	Limit          int
	Offset         int
	Search         string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
}
