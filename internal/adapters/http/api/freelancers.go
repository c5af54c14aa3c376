// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/internal/domain/query"
)

// FreelancersDependencies defines the interface for freelancer listing queries.
type FreelancersDependencies interface {
	BrowseFreelancers(ctx context.Context, c query.Criteria, sortKey query.SortKey, page, pageSize int) query.View[model.Freelancer]
}

// FreelancersHandler handles freelancer listing requests.
type FreelancersHandler struct {
	deps FreelancersDependencies
}

// NewFreelancersHandler creates a new freelancers handler.
func NewFreelancersHandler(deps FreelancersDependencies) *FreelancersHandler {
	return &FreelancersHandler{deps: deps}
}

// HandleGetFreelancers handles GET /freelancers requests.
func (h *FreelancersHandler) HandleGetFreelancers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_freelancers"
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
		Search:       q.Get("search"),
		Location:     q.Get("location"),
		Categories:   multiValues(q, "category"),
		Experience:   multiValues(q, "experience"),
		Availability: multiValues(q, "availability"),
		Rates:        multiValues(q, "rate"),
		Ratings:      multiValues(q, "rating"),
		Regions:      multiValues(q, "region"),
	}
	sortKey := query.SortKey(q.Get("sort"))
	if sortKey == "" {
		sortKey = query.SortRating
	}
	view := h.deps.BrowseFreelancers(r.Context(), c, sortKey, page, pageSize)
	writeJSON(w, http.StatusOK, view)
}
