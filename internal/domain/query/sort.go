package query

import "github.com/talentsync/talentsync/internal/domain/model"

// SortKey names one comparator from the registered comparator set.
// An unknown key preserves the current order.
type SortKey string

const (
	SortNewest        SortKey = "newest"
	SortBudgetHigh    SortKey = "budget-high"
	SortBudgetLow     SortKey = "budget-low"
	SortProposals     SortKey = "proposals"
	SortRating        SortKey = "rating"
	SortRateLow       SortKey = "rate-low"
	SortRateHigh      SortKey = "rate-high"
	SortRecent        SortKey = "recent"
	SortJobsCompleted SortKey = "jobs-completed"
)

// Less orders two records; used with a stable sort so that records with
// equal keys keep their relative input order.
type Less[T any] func(a, b T) bool

// JobComparators returns the comparator set for job listings.
//
// SortProposals orders ascending by proposal count. The product copy
// reads "sort by popularity", but the shipped behavior has always been
// ascending; changing it is a product decision, not a cleanup.
func JobComparators() map[SortKey]Less[model.Job] {
	return map[SortKey]Less[model.Job]{
		SortNewest: func(a, b model.Job) bool {
			return a.PostedAt.After(b.PostedAt)
		},
		SortBudgetHigh: func(a, b model.Job) bool {
			return a.EffectiveBudget() > b.EffectiveBudget()
		},
		SortBudgetLow: func(a, b model.Job) bool {
			return a.EffectiveBudget() < b.EffectiveBudget()
		},
		SortProposals: func(a, b model.Job) bool {
			return a.Proposals < b.Proposals
		},
	}
}

// FreelancerComparators returns the comparator set for freelancer listings.
func FreelancerComparators() map[SortKey]Less[model.Freelancer] {
	return map[SortKey]Less[model.Freelancer]{
		SortRating: func(a, b model.Freelancer) bool {
			return a.Rating > b.Rating
		},
		SortRateLow: func(a, b model.Freelancer) bool {
			return a.HourlyRate < b.HourlyRate
		},
		SortRateHigh: func(a, b model.Freelancer) bool {
			return a.HourlyRate > b.HourlyRate
		},
		SortRecent: func(a, b model.Freelancer) bool {
			return a.JoinedAt.After(b.JoinedAt)
		},
		SortJobsCompleted: func(a, b model.Freelancer) bool {
			return a.CompletedJobs > b.CompletedJobs
		},
	}
}
