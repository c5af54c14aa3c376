package query_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/internal/domain/query"
)

func day(n int) time.Time {
	return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func fixedJob(id, title, category string, max float64, posted time.Time) model.Job {
	return model.Job{
		ID:       id,
		Title:    title,
		Category: category,
		Budget:   model.Budget{Type: model.BudgetFixed, Max: max},
		PostedAt: posted,
	}
}

func TestJobEngineFiltering(t *testing.T) {
	Convey("Given a job engine over a mixed collection", t, func() {
		jobs := []model.Job{
			fixedJob("j1", "React Developer", "web-development", 3500, day(3)),
			fixedJob("j2", "Logo Design", "design", 400, day(1)),
			{
				ID:       "j3",
				Title:    "Tech Blog Writer",
				Category: "writing",
				Skills:   []string{"SEO", "Research"},
				Budget:   model.Budget{Type: model.BudgetHourly, Min: 25, Max: 40},
				PostedAt: day(2),
			},
			fixedJob("j4", "Data Pipeline", "web-development", 900, day(4)),
		}
		e := query.NewJobEngine(jobs)

		Convey("When no criteria are set", func() {
			view := e.CurrentView()

			Convey("Then every record is visible, newest first", func() {
				So(view.TotalCount, ShouldEqual, 4)
				So(view.Records[0].ID, ShouldEqual, "j4")
				So(view.Records[3].ID, ShouldEqual, "j2")
			})
		})

		Convey("When a category filter is set", func() {
			e.SetCriteria(query.Criteria{Categories: []string{"web-development"}})
			view := e.CurrentView()

			Convey("Then only matching records remain", func() {
				So(view.TotalCount, ShouldEqual, 2)
				for _, j := range view.Records {
					So(j.Category, ShouldEqual, "web-development")
				}
			})
		})

		Convey("When several categories are selected", func() {
			e.SetCriteria(query.Criteria{Categories: []string{"design", "writing"}})

			Convey("Then membership is OR within the set", func() {
				So(e.CurrentView().TotalCount, ShouldEqual, 2)
			})
		})

		Convey("When search and budget combine", func() {
			e.SetCriteria(query.Criteria{
				Search:  "react",
				Budgets: []string{"1000-5000"},
			})
			view := e.CurrentView()

			Convey("Then categories of predicates AND together", func() {
				So(view.TotalCount, ShouldEqual, 1)
				So(view.Records[0].ID, ShouldEqual, "j1")
			})
		})

		Convey("When search matches a skill", func() {
			e.SetCriteria(query.Criteria{Search: "seo"})
			view := e.CurrentView()

			Convey("Then skill matches count, case-insensitively", func() {
				So(view.TotalCount, ShouldEqual, 1)
				So(view.Records[0].ID, ShouldEqual, "j3")
			})
		})

		Convey("When an hourly job meets a budget bucket", func() {
			e.SetCriteria(query.Criteria{Budgets: []string{"1000-5000"}})
			ids := make([]string, 0)
			for _, j := range e.CurrentView().Records {
				ids = append(ids, j.ID)
			}

			Convey("Then its 40 hour week projection is compared", func() {
				// j3 projects 40*40 = 1600
				So(ids, ShouldContain, "j3")
				So(ids, ShouldContain, "j1")
				So(ids, ShouldNotContain, "j2")
			})
		})

		Convey("When criteria are cleared", func() {
			e.SetCriteria(query.Criteria{Categories: []string{"design"}})
			e.SetCriteria(query.Criteria{})

			Convey("Then the full collection returns", func() {
				So(e.CurrentView().TotalCount, ShouldEqual, 4)
			})
		})

		Convey("When the source is empty", func() {
			empty := query.NewJobEngine(nil)
			empty.SetCriteria(query.Criteria{Search: "anything"})
			view := empty.CurrentView()

			Convey("Then the view is empty, not an error", func() {
				So(view.TotalCount, ShouldEqual, 0)
				So(view.Records, ShouldBeEmpty)
				So(view.HasMore, ShouldBeFalse)
			})
		})
	})
}

func TestJobEngineSorting(t *testing.T) {
	Convey("Given jobs with distinct budgets and proposal counts", t, func() {
		jobs := []model.Job{
			{ID: "a", Budget: model.Budget{Type: model.BudgetFixed, Max: 900}, Proposals: 12, PostedAt: day(1)},
			{ID: "b", Budget: model.Budget{Type: model.BudgetFixed, Max: 3000}, Proposals: 3, PostedAt: day(2)},
			{ID: "c", Budget: model.Budget{Type: model.BudgetFixed, Max: 1500}, Proposals: 8, PostedAt: day(3)},
		}
		e := query.NewJobEngine(jobs)

		Convey("When sorting by budget descending", func() {
			e.SetSort(query.SortBudgetHigh)
			view := e.CurrentView()
			So(view.Records[0].ID, ShouldEqual, "b")
			So(view.Records[2].ID, ShouldEqual, "a")
		})

		Convey("When sorting by proposals", func() {
			e.SetSort(query.SortProposals)
			view := e.CurrentView()

			Convey("Then the order is ascending by count", func() {
				So(view.Records[0].ID, ShouldEqual, "b")
				So(view.Records[1].ID, ShouldEqual, "c")
				So(view.Records[2].ID, ShouldEqual, "a")
			})
		})

		Convey("When the sort key is unknown", func() {
			e.SetSort(query.SortBudgetLow)
			before := e.CurrentView()
			e.SetSort(query.SortKey("popularity-contest"))
			after := e.CurrentView()

			Convey("Then the current order is untouched", func() {
				So(after.Records[0].ID, ShouldEqual, before.Records[0].ID)
				So(after.Records[2].ID, ShouldEqual, before.Records[2].ID)
			})
		})

		Convey("When records tie on the sort key", func() {
			tied := []model.Job{
				{ID: "t1", Budget: model.Budget{Type: model.BudgetFixed, Max: 100}, PostedAt: day(1)},
				{ID: "t2", Budget: model.Budget{Type: model.BudgetFixed, Max: 100}, PostedAt: day(1)},
				{ID: "t3", Budget: model.Budget{Type: model.BudgetFixed, Max: 100}, PostedAt: day(1)},
			}
			te := query.NewJobEngine(tied, query.WithSortKey(query.SortBudgetHigh))
			view := te.CurrentView()

			Convey("Then ties keep their relative input order", func() {
				So(view.Records[0].ID, ShouldEqual, "t1")
				So(view.Records[1].ID, ShouldEqual, "t2")
				So(view.Records[2].ID, ShouldEqual, "t3")
			})
		})
	})
}

func TestEnginePagination(t *testing.T) {
	Convey("Given 25 jobs and a page size of 10", t, func() {
		jobs := make([]model.Job, 25)
		for i := range jobs {
			jobs[i] = fixedJob(fmt.Sprintf("j%02d", i), "Job", "web-development", 1000, day(i))
		}
		e := query.NewJobEngine(jobs, query.WithPageSize(10))

		Convey("Then the first page shows ten records", func() {
			view := e.CurrentView()
			So(len(view.Records), ShouldEqual, 10)
			So(view.HasMore, ShouldBeTrue)
		})

		Convey("When loading more, the visible slice grows cumulatively", func() {
			So(e.LoadMore(), ShouldBeTrue)
			view := e.CurrentView()
			So(len(view.Records), ShouldEqual, 20)
			So(view.Page, ShouldEqual, 2)

			Convey("And the first ten records are unchanged", func() {
				first := query.NewJobEngine(jobs, query.WithPageSize(10)).CurrentView()
				for i := range first.Records {
					So(view.Records[i].ID, ShouldEqual, first.Records[i].ID)
				}
			})
		})

		Convey("When the last partial page is revealed", func() {
			So(e.LoadMore(), ShouldBeTrue)
			So(e.LoadMore(), ShouldBeTrue)
			view := e.CurrentView()
			So(len(view.Records), ShouldEqual, 25)
			So(view.HasMore, ShouldBeFalse)

			Convey("And loading past the end reports false", func() {
				So(e.LoadMore(), ShouldBeFalse)
				So(e.CurrentView().Page, ShouldEqual, 3)
			})
		})

		Convey("When criteria change after paging deep", func() {
			e.LoadMore()
			e.LoadMore()
			e.SetCriteria(query.Criteria{Search: "job"})

			Convey("Then paging resets to the first page", func() {
				So(e.CurrentView().Page, ShouldEqual, 1)
			})
		})

		Convey("When the source shrinks under a deep page", func() {
			e.LoadMore()
			e.LoadMore()
			e.SetRecords(jobs[:5])
			view := e.CurrentView()

			Convey("Then the page clamps to the filtered set", func() {
				So(view.Page, ShouldEqual, 1)
				So(len(view.Records), ShouldEqual, 5)
				So(view.HasMore, ShouldBeFalse)
			})
		})
	})
}

func TestFreelancerEngine(t *testing.T) {
	Convey("Given a freelancer engine", t, func() {
		freelancers := []model.Freelancer{
			{ID: "f1", Name: "Sarah", HourlyRate: 95, Rating: 4.9, Availability: model.Available, Location: "London, UK", JoinedAt: day(1)},
			{ID: "f2", Name: "Michael", HourlyRate: 45, Rating: 4.2, Availability: model.Busy, Location: "New York, USA", JoinedAt: day(2)},
			{ID: "f3", Name: "Emma", HourlyRate: 20, Rating: 3.6, Availability: model.Available, Location: "Remote", JoinedAt: day(3)},
			{ID: "f4", Name: "Maya", HourlyRate: 120, Rating: 4.6, Availability: model.Available, Location: "Tokyo, Japan", JoinedAt: day(4)},
		}
		e := query.NewFreelancerEngine(freelancers, query.WithSortKey(query.SortRating))

		Convey("When filtering by availability and rate bucket", func() {
			e.SetCriteria(query.Criteria{
				Availability: []string{"available"},
				Rates:        []string{"0-25", "100+"},
			})
			view := e.CurrentView()

			Convey("Then buckets OR together under the AND of categories", func() {
				So(view.TotalCount, ShouldEqual, 2)
				ids := []string{view.Records[0].ID, view.Records[1].ID}
				So(ids, ShouldContain, "f3")
				So(ids, ShouldContain, "f4")
			})
		})

		Convey("When filtering by region", func() {
			e.SetCriteria(query.Criteria{Regions: []string{"europe", "asia"}})
			view := e.CurrentView()

			Convey("Then locations resolve through the region tables", func() {
				So(view.TotalCount, ShouldEqual, 2)
			})

			Convey("And remote is its own region", func() {
				e.SetCriteria(query.Criteria{Regions: []string{"remote"}})
				v := e.CurrentView()
				So(v.TotalCount, ShouldEqual, 1)
				So(v.Records[0].ID, ShouldEqual, "f3")
			})
		})

		Convey("When filtering by minimum rating", func() {
			e.SetCriteria(query.Criteria{Ratings: []string{"4.5+"}})
			view := e.CurrentView()

			Convey("Then the threshold is a closed lower bound", func() {
				So(view.TotalCount, ShouldEqual, 2)
				So(view.Records[0].ID, ShouldEqual, "f1")
			})
		})

		Convey("When sorting by rate ascending", func() {
			e.SetSort(query.SortRateLow)
			view := e.CurrentView()
			So(view.Records[0].ID, ShouldEqual, "f3")
			So(view.Records[3].ID, ShouldEqual, "f4")
		})

		Convey("When sorting by completed jobs", func() {
			freelancers[0].CompletedJobs = 10
			freelancers[2].CompletedJobs = 80
			e.SetRecords(freelancers)
			e.SetSort(query.SortJobsCompleted)
			So(e.CurrentView().Records[0].ID, ShouldEqual, "f3")
		})
	})
}
