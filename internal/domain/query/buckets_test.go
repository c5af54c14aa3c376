package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBudgetBuckets(t *testing.T) {
	Convey("Given the budget buckets", t, func() {
		Convey("Then boundaries land in the lower bucket", func() {
			So(MatchesBudgetBucket("0-500", 500), ShouldBeTrue)
			So(MatchesBudgetBucket("500-1000", 500), ShouldBeFalse)
			So(MatchesBudgetBucket("500-1000", 1000), ShouldBeTrue)
			So(MatchesBudgetBucket("1000-5000", 1000), ShouldBeFalse)
			So(MatchesBudgetBucket("1000-5000", 5000), ShouldBeTrue)
			So(MatchesBudgetBucket("5000+", 5000), ShouldBeFalse)
			So(MatchesBudgetBucket("5000+", 5000.01), ShouldBeTrue)
		})

		Convey("Then zero budget falls in the lowest bucket", func() {
			So(MatchesBudgetBucket("0-500", 0), ShouldBeTrue)
		})

		Convey("Then an unknown bucket matches everything", func() {
			So(MatchesBudgetBucket("300-800", 10000), ShouldBeTrue)
			So(MatchesBudgetBucket("", 42), ShouldBeTrue)
		})
	})
}

func TestRateBuckets(t *testing.T) {
	Convey("Given the hourly rate buckets", t, func() {
		So(MatchesRateBucket("0-25", 25), ShouldBeTrue)
		So(MatchesRateBucket("25-50", 25), ShouldBeFalse)
		So(MatchesRateBucket("25-50", 50), ShouldBeTrue)
		So(MatchesRateBucket("50-100", 100), ShouldBeTrue)
		So(MatchesRateBucket("100+", 100), ShouldBeFalse)
		So(MatchesRateBucket("100+", 150), ShouldBeTrue)
		So(MatchesRateBucket("mystery", 1), ShouldBeTrue)
	})
}

func TestRatingBuckets(t *testing.T) {
	Convey("Given the minimum rating buckets", t, func() {
		So(MatchesRatingBucket("4.5+", 4.5), ShouldBeTrue)
		So(MatchesRatingBucket("4.5+", 4.49), ShouldBeFalse)
		So(MatchesRatingBucket("4.0+", 4.0), ShouldBeTrue)
		So(MatchesRatingBucket("3.5+", 3.4), ShouldBeFalse)
		So(MatchesRatingBucket("any", 0), ShouldBeTrue)
	})
}

func TestMatchesAnyBucket(t *testing.T) {
	Convey("Given a bucket selection", t, func() {
		Convey("Then an empty selection disables the predicate", func() {
			So(matchesAnyBucket(nil, 9999, MatchesBudgetBucket), ShouldBeTrue)
		})

		Convey("Then selections OR together", func() {
			buckets := []string{"0-500", "5000+"}
			So(matchesAnyBucket(buckets, 200, MatchesBudgetBucket), ShouldBeTrue)
			So(matchesAnyBucket(buckets, 6000, MatchesBudgetBucket), ShouldBeTrue)
			So(matchesAnyBucket(buckets, 2000, MatchesBudgetBucket), ShouldBeFalse)
		})
	})
}
