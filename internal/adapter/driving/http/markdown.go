// Package http exposes the dashboard and the collected store as a JSON API.
package http

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownRenderer converts GitHub-flavored markdown bodies into sanitized
// HTML snippets for the activity feed.
type markdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML. On conversion failure the body
// is still returned, sanitized as plain input.
func (r *markdownRenderer) Render(body string) string {
	if body == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return r.policy.Sanitize(body)
	}

	return r.policy.Sanitize(buf.String())
}
