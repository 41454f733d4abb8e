package model

import "time"

// maxRecentEvents bounds the actor event window kept per contributor.
const maxRecentEvents = 50

// WeekStat is one week of commit statistics for a contributor. WeekStart is
// derived from the raw week-start epoch reported by the API.
type WeekStat struct {
	WeekStart time.Time `json:"week_start"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Commits   int       `json:"commits"`
}

// ActorEvent is a single repository event attributed to a contributor.
type ActorEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ContributorActivity is the per-contributor activity document, keyed by
// (username, repository ID). RecentEvents holds at most the 50 newest events.
type ContributorActivity struct {
	Username     string
	RepositoryID int64
	Weeks        []WeekStat
	RecentEvents []ActorEvent
	LastUpdated  time.Time
	CollectedAt  time.Time
}

// TotalCommits sums commits across all recorded weeks.
func (a ContributorActivity) TotalCommits() int {
	var total int
	for _, w := range a.Weeks {
		total += w.Commits
	}
	return total
}

// TrimRecentEvents drops all but the newest 50 events, preserving order.
func (a *ContributorActivity) TrimRecentEvents() {
	if len(a.RecentEvents) > maxRecentEvents {
		a.RecentEvents = a.RecentEvents[len(a.RecentEvents)-maxRecentEvents:]
	}
}
