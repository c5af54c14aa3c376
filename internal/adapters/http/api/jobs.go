// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/internal/domain/query"
)

// JobsDependencies defines the interface for job listing queries.
type JobsDependencies interface {
	BrowseJobs(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Job]
}

// JobsHandler handles job listing requests.
type JobsHandler struct {
	deps JobsDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobsDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleGetJobs handles GET /jobs requests. Filters arrive as query
// parameters; repeated or comma-separated values form an OR set.
func (h *JobsHandler) HandleGetJobs(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_jobs"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	page, pageSize, err := paging(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c := query.Criteria{
		Search:     q.Get("search"),
		Location:   q.Get("location"),
		Categories: multiValues(q, "category"),
		Experience: multiValues(q, "experience"),
		Durations:  multiValues(q, "duration"),
		Types:      multiValues(q, "type"),
		Budgets:    multiValues(q, "budget"),
	}
	view := h.deps.BrowseJobs(r.Context(), c, query.SortKey(q.Get("sort")), page, pageSize)
	writeJSON(w, http.StatusOK, view)
}

// multiValues collects every occurrence of key, splitting comma-separated
// lists, so ?category=a&category=b and ?category=a,b are equivalent.
func multiValues(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// paging parses the page and page_size parameters. Absent values default
// to the first page and the service's page size.
func paging(q url.Values) (page, pageSize int, err error) {
	page = 1
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			return 0, 0, ErrBadRequest
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if pageSize, err = strconv.Atoi(raw); err != nil || pageSize < 1 {
			return 0, 0, ErrBadRequest
		}
	}
	return page, pageSize, nil
}
