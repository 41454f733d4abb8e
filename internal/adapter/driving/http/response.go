package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/repopulse/repopulse/internal/application"
	"github.com/repopulse/repopulse/internal/domain/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// feedEntryDTO is a feed row with the markdown body rendered to sanitized HTML.
type feedEntryDTO struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	URL        string `json:"url"`
	BodyHTML   string `json:"body_html,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type windowDTO struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

type dashboardDTO struct {
	Repository      string                         `json:"repository"`
	Window          windowDTO                      `json:"window"`
	Summary         application.Summary            `json:"summary"`
	TopContributors []application.ContributorCount `json:"top_contributors"`
	Feed            []feedEntryDTO                 `json:"feed"`
	Raw             map[string]any                 `json:"raw"`
	Warning         string                         `json:"warning,omitempty"`
}

func toDashboardDTO(data *application.DashboardData, renderer *markdownRenderer) dashboardDTO {
	feed := make([]feedEntryDTO, 0, len(data.Feed))
	for _, entry := range data.Feed {
		feed = append(feed, feedEntryDTO{
			Type:       entry.Type,
			Title:      entry.Title,
			Author:     entry.Author,
			URL:        entry.URL,
			BodyHTML:   renderer.Render(snippet(entry.Body)),
			OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		})
	}

	return dashboardDTO{
		Repository:      data.Repository,
		Window: windowDTO{
			Since: data.Window.Since.Format(time.RFC3339),
			Until: data.Window.Until.Format(time.RFC3339),
		},
		Summary:         data.Summary,
		TopContributors: data.TopContributors,
		Feed:            feed,
		Raw: map[string]any{
			"commits":       data.Commits,
			"pull_requests": data.PullRequests,
			"issues":        data.Issues,
		},
		Warning: data.Warning,
	}
}

// snippetLimit bounds feed body length before rendering.
const snippetLimit = 280

func snippet(body string) string {
	if len(body) <= snippetLimit {
		return body
	}
	// Cut on a rune boundary.
	cut := snippetLimit
	for cut > 0 && body[cut]&0xC0 == 0x80 {
		cut--
	}
	return body[:cut] + "…"
}

type repositoryDTO struct {
	ID          int64  `json:"id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Watchers    int    `json:"watchers"`
}

func toRepositoryDTO(r model.Repository) repositoryDTO {
	return repositoryDTO{
		ID:          r.ID,
		Owner:       r.Owner,
		Name:        r.Name,
		FullName:    r.FullName(),
		Description: r.Description,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Watchers:    r.Watchers,
	}
}
