// Package model contains domain models passed between layers.
package model

import "time"

// BudgetType distinguishes fixed-price jobs from hourly ones.
type BudgetType string

const (
	BudgetFixed  BudgetType = "fixed"
	BudgetHourly BudgetType = "hourly"
)

// hoursPerWeek converts an hourly rate into a monetary value comparable
// with fixed budgets. Deliberately a constant, not configuration.
const hoursPerWeek = 40

// Budget describes what a client is willing to pay for a job.
type Budget struct {
	Type BudgetType `json:"type"`
	Min  float64    `json:"min"`
	Max  float64    `json:"max"`
}

// Job is a canonical job listing. Every field is guaranteed present after
// normalization: Skills is never nil, PostedAt is never zero.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Skills      []string  `json:"skills"`
	Budget      Budget    `json:"budget"`
	Experience  string    `json:"experience_level"`
	Duration    string    `json:"duration"`
	PostedAt    time.Time `json:"posted_at"`
	Proposals   int       `json:"proposal_count"`
	ClientID    string    `json:"client_id,omitempty"`
}

// EffectiveBudget returns the comparable monetary value of the job.
// Hourly budgets are scaled by a fixed 40-hour assumption so they can be
// compared and bucketed together with fixed budgets.
func (j Job) EffectiveBudget() float64 {
	amount := j.Budget.Max
	if amount == 0 {
		amount = j.Budget.Min
	}
	if j.Budget.Type == BudgetHourly {
		return amount * hoursPerWeek
	}
	return amount
}

// Availability indicates whether a freelancer is taking new work.
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
)

// Freelancer is a canonical freelancer profile.
type Freelancer struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Bio           string       `json:"bio"`
	Category      string       `json:"category"`
	Skills        []string     `json:"skills"`
	HourlyRate    float64      `json:"hourly_rate"`
	Rating        float64      `json:"rating"`
	Experience    string       `json:"experience_level"`
	Availability  Availability `json:"availability"`
	Location      string       `json:"location"`
	JoinedAt      time.Time    `json:"joined_at"`
	CompletedJobs int          `json:"completed_jobs"`
}
