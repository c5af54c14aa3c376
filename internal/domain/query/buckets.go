package query

// Named numeric ranges used by the budget, rate and rating filters.
// Bucket names are part of the client contract and match the checkbox
// values the marketplace front ends submit. An unknown bucket name is
// treated as matching everything rather than rejecting the record.

// budget bucket thresholds, in currency units of effective budget.
const (
	budgetLow  = 500
	budgetMid  = 1000
	budgetHigh = 5000
)

// MatchesBudgetBucket reports whether an effective budget falls inside a
// named budget bucket.
func MatchesBudgetBucket(bucket string, amount float64) bool {
	switch bucket {
	case "0-500":
		return amount <= budgetLow
	case "500-1000":
		return amount > budgetLow && amount <= budgetMid
	case "1000-5000":
		return amount > budgetMid && amount <= budgetHigh
	case "5000+":
		return amount > budgetHigh
	default:
		return true
	}
}

// MatchesRateBucket reports whether an hourly rate falls inside a named
// rate bucket.
func MatchesRateBucket(bucket string, rate float64) bool {
	switch bucket {
	case "0-25":
		return rate <= 25
	case "25-50":
		return rate > 25 && rate <= 50
	case "50-100":
		return rate > 50 && rate <= 100
	case "100+":
		return rate > 100
	default:
		return true
	}
}

// MatchesRatingBucket reports whether a rating clears a named minimum
// rating threshold. Thresholds are closed lower bounds.
func MatchesRatingBucket(bucket string, rating float64) bool {
	switch bucket {
	case "4.5+":
		return rating >= 4.5
	case "4.0+":
		return rating >= 4.0
	case "3.5+":
		return rating >= 3.5
	default:
		return true
	}
}

// matchesAnyBucket applies OR semantics across selected buckets, with
// empty selection meaning the predicate is disabled.
func matchesAnyBucket(buckets []string, value float64, match func(string, float64) bool) bool {
	if len(buckets) == 0 {
		return true
	}
	for _, b := range buckets {
		if match(b, value) {
			return true
		}
	}
	return false
}
