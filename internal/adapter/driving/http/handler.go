package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/repopulse/repopulse/internal/application"
	"github.com/repopulse/repopulse/internal/domain/model"
	"github.com/repopulse/repopulse/internal/domain/port/driven"
)

// Handler serves the dashboard API and read endpoints over the collected
// store.
type Handler struct {
	dashboard *application.DashboardService
	prs       driven.PRStore
	issues    driven.IssueStore
	comments  driven.CommentStore
	renderer  *markdownRenderer
}

// NewHandler creates the API handler.
func NewHandler(
	dashboard *application.DashboardService,
	prs driven.PRStore,
	issues driven.IssueStore,
	comments driven.CommentStore,
) *Handler {
	return &Handler{
		dashboard: dashboard,
		prs:       prs,
		issues:    issues,
		comments:  comments,
		renderer:  newMarkdownRenderer(),
	}
}

// Routes builds the full route table with logging and recovery middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.handleHealth)
	mux.HandleFunc("GET /api/v1/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /api/v1/users/{user}/repos", h.handleUserRepos)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}", h.handleRepository)
	mux.HandleFunc("GET /api/v1/store/repos/{id}/pulls", h.handleStoredPRs)
	mux.HandleFunc("GET /api/v1/store/repos/{id}/issues", h.handleStoredIssues)
	mux.HandleFunc("GET /api/v1/store/repos/{id}/comments", h.handleStoredComments)
	mux.HandleFunc("GET /api/v1/store/repos/{id}/velocity", h.handleVelocity)

	return recovery(logging(mux))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDashboard serves the live time-window view. Query parameters:
// user, repo, window (day|week|month|custom), start/end (YYYY-MM-DD, custom
// windows only).
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	repo := r.URL.Query().Get("repo")
	if user == "" || repo == "" {
		writeError(w, http.StatusBadRequest, "user and repo query parameters are required")
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.dashboard.FetchWindow(r.Context(), user, repo, window)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			writeError(w, http.StatusBadGateway, "upstream rejected the configured credentials")
			return
		}
		slog.Error("dashboard fetch failed", "user", user, "repo", repo, "error", err)
		writeError(w, http.StatusInternalServerError, "dashboard fetch failed")
		return
	}

	writeJSON(w, http.StatusOK, toDashboardDTO(data, h.renderer))
}

func windowFromQuery(r *http.Request) (model.TimeWindow, error) {
	q := r.URL.Query()
	opt := model.WindowOption(q.Get("window"))
	if opt == "" {
		opt = model.WindowLastWeek
	}

	if opt != model.WindowCustom {
		return model.WindowFor(opt, time.Now())
	}

	start, err := time.Parse("2006-01-02", q.Get("start"))
	if err != nil {
		return model.TimeWindow{}, errors.New("custom window needs start=YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", q.Get("end"))
	if err != nil {
		return model.TimeWindow{}, errors.New("custom window needs end=YYYY-MM-DD")
	}

	return model.CustomWindow(start, end)
}

func (h *Handler) handleUserRepos(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	repos, err := h.dashboard.UserRepositories(r.Context(), user)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{
				"warning":      "user not found",
				"repositories": []repositoryDTO{},
			})
			return
		}
		h.writeUpstreamError(w, "listing repositories", err)
		return
	}

	dtos := make([]repositoryDTO, 0, len(repos))
	for _, repo := range repos {
		dtos = append(dtos, toRepositoryDTO(repo))
	}
	writeJSON(w, http.StatusOK, map[string]any{"repositories": dtos})
}

func (h *Handler) handleRepository(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")

	meta, err := h.dashboard.RepositoryMetadata(r.Context(), owner, repo)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.writeUpstreamError(w, "fetching repository", err)
		return
	}

	writeJSON(w, http.StatusOK, toRepositoryDTO(*meta))
}

func (h *Handler) handleStoredPRs(w http.ResponseWriter, r *http.Request) {
	repoID, ok := pathID(w, r)
	if !ok {
		return
	}

	prs, err := h.prs.GetByRepository(r.Context(), repoID)
	if err != nil {
		slog.Error("stored PR query failed", "repository_id", repoID, "error", err)
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"pull_requests": prs})
}

func (h *Handler) handleStoredIssues(w http.ResponseWriter, r *http.Request) {
	repoID, ok := pathID(w, r)
	if !ok {
		return
	}

	issues, err := h.issues.GetByRepository(r.Context(), repoID)
	if err != nil {
		slog.Error("stored issue query failed", "repository_id", repoID, "error", err)
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

// handleStoredComments lists the comments under one parent. Query parameters:
// parent_type (PR|Issue) and parent_number.
func (h *Handler) handleStoredComments(w http.ResponseWriter, r *http.Request) {
	repoID, ok := pathID(w, r)
	if !ok {
		return
	}

	parentType := model.CommentParentType(r.URL.Query().Get("parent_type"))
	if parentType != model.ParentTypePR && parentType != model.ParentTypeIssue {
		writeError(w, http.StatusBadRequest, "parent_type must be PR or Issue")
		return
	}

	parentNumber, err := strconv.Atoi(r.URL.Query().Get("parent_number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "parent_number must be an integer")
		return
	}

	comments, err := h.comments.GetByParent(r.Context(), repoID, parentType, parentNumber)
	if err != nil {
		slog.Error("stored comment query failed", "repository_id", repoID, "error", err)
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *Handler) handleVelocity(w http.ResponseWriter, r *http.Request) {
	repoID, ok := pathID(w, r)
	if !ok {
		return
	}

	velocities, err := h.dashboard.ContributorVelocity(r.Context(), repoID)
	if err != nil {
		slog.Error("velocity query failed", "repository_id", repoID, "error", err)
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contributors": velocities})
}

func (h *Handler) writeUpstreamError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, model.ErrUnauthorized) {
		writeError(w, http.StatusBadGateway, "upstream rejected the configured credentials")
		return
	}
	slog.Error("upstream request failed", "op", op, "error", err)
	writeError(w, http.StatusBadGateway, op+" failed")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "repository id must be an integer")
		return 0, false
	}
	return id, true
}
