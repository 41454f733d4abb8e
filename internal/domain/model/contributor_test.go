package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotalCommits(t *testing.T) {
	a := ContributorActivity{
		Weeks: []WeekStat{{Commits: 3}, {Commits: 0}, {Commits: 9}},
	}
	assert.Equal(t, 12, a.TotalCommits())
}

func TestTrimRecentEventsKeepsNewest(t *testing.T) {
	a := ContributorActivity{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 80; i++ {
		a.RecentEvents = append(a.RecentEvents, ActorEvent{
			ID:         fmt.Sprintf("e%d", i),
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	a.TrimRecentEvents()

	assert.Len(t, a.RecentEvents, 50)
	assert.Equal(t, "e30", a.RecentEvents[0].ID, "oldest events are dropped")
	assert.Equal(t, "e79", a.RecentEvents[49].ID)
}

func TestTrimRecentEventsNoopUnderLimit(t *testing.T) {
	a := ContributorActivity{RecentEvents: []ActorEvent{{ID: "e1"}}}
	a.TrimRecentEvents()
	assert.Len(t, a.RecentEvents, 1)
}

func TestCommitSubject(t *testing.T) {
	c := Commit{Message: "Fix pagination stop\n\nLonger explanation here."}
	assert.Equal(t, "Fix pagination stop", c.Subject())

	single := Commit{Message: "One liner"}
	assert.Equal(t, "One liner", single.Subject())
}

func TestPullRequestIsMerged(t *testing.T) {
	assert.True(t, PullRequest{State: PRStateMerged}.IsMerged())
	assert.False(t, PullRequest{State: PRStateClosed}.IsMerged())
}
