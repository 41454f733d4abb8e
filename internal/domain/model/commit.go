package model

import "time"

// Commit is a lightweight commit record used by the dashboard's live fetch
// path. Commits are not persisted by the collector.
type Commit struct {
	SHA        string
	Author     string
	Message    string
	URL        string
	AuthoredAt time.Time
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}
