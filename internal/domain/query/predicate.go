package query

import (
	"strings"

	"github.com/talentsync/talentsync/internal/domain/model"
)

// Predicates combine with AND semantics across categories: a record must
// pass every active predicate to remain in the filtered set.

// MatchJob reports whether a job satisfies every active predicate in c.
func MatchJob(j model.Job, c Criteria) bool {
	if c.Search != "" && !jobMatchesSearch(j, c.Search) {
		return false
	}
	if c.Location != "" && !containsFold(j.Location, c.Location) {
		return false
	}
	if !memberOf(c.Categories, j.Category) {
		return false
	}
	if !matchesAnyBucket(c.Budgets, j.EffectiveBudget(), MatchesBudgetBucket) {
		return false
	}
	if !memberOf(c.Experience, j.Experience) {
		return false
	}
	if !memberOf(c.Durations, j.Duration) {
		return false
	}
	if !memberOf(c.Types, string(j.Budget.Type)) {
		return false
	}
	return true
}

// MatchFreelancer reports whether a freelancer satisfies every active
// predicate in c.
func MatchFreelancer(f model.Freelancer, c Criteria) bool {
	if c.Search != "" && !freelancerMatchesSearch(f, c.Search) {
		return false
	}
	if c.Location != "" && !containsFold(f.Location, c.Location) {
		return false
	}
	if !memberOf(c.Categories, f.Category) {
		return false
	}
	if !matchesAnyBucket(c.Rates, f.HourlyRate, MatchesRateBucket) {
		return false
	}
	if !memberOf(c.Experience, f.Experience) {
		return false
	}
	if !matchesAnyBucket(c.Ratings, f.Rating, MatchesRatingBucket) {
		return false
	}
	if !memberOf(c.Availability, string(f.Availability)) {
		return false
	}
	if !matchesAnyRegion(c.Regions, f.Location) {
		return false
	}
	return true
}

// jobMatchesSearch applies the free-text predicate with OR semantics
// across title, description and skills.
func jobMatchesSearch(j model.Job, term string) bool {
	if containsFold(j.Title, term) || containsFold(j.Description, term) {
		return true
	}
	return skillsMatch(j.Skills, term)
}

// freelancerMatchesSearch applies the free-text predicate with OR
// semantics across name, title, skills and bio.
func freelancerMatchesSearch(f model.Freelancer, term string) bool {
	if containsFold(f.Name, term) || containsFold(f.Title, term) || containsFold(f.Bio, term) {
		return true
	}
	return skillsMatch(f.Skills, term)
}

func skillsMatch(skills []string, term string) bool {
	for _, s := range skills {
		if containsFold(s, term) {
			return true
		}
	}
	return false
}

// Named location regions for freelancer browsing. Country spellings match
// the location strings stored on freelancer profiles.
var regionCountries = map[string][]string{
	"europe": {"UK", "Germany", "France", "Spain", "Netherlands"},
	"asia":   {"Japan", "Singapore", "India"},
}

func matchesAnyRegion(regions []string, location string) bool {
	if len(regions) == 0 {
		return true
	}
	for _, r := range regions {
		if matchesRegion(r, location) {
			return true
		}
	}
	return false
}

func matchesRegion(region, location string) bool {
	switch region {
	case "remote":
		return location == "Remote"
	case "us":
		return strings.Contains(location, "USA")
	case "europe", "asia":
		for _, country := range regionCountries[region] {
			if strings.Contains(location, country) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
