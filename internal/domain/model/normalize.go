package model

import (
	"fmt"
	"strings"
	"time"
)

// Raw record shapes mirror the documents stored in the document store,
// including historical field-name variants written by older clients.
// Normalization maps every variant onto the canonical types in this
// package; the query engine and aggregator only ever see canonical shapes.

// RawBudget is the structured budget form. Older documents carried a flat
// numeric budget instead; see RawJob.BudgetAmount.
type RawBudget struct {
	Type string  `json:"type"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// RawJob is a job document as loaded from storage.
type RawJob struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	Skills       []string   `json:"skills"`
	Budget       *RawBudget `json:"budget,omitempty"`
	BudgetAmount *float64   `json:"budget_amount,omitempty"` // legacy flat form
	Experience   string     `json:"experience,omitempty"`    // legacy name
	ExpLevel     string     `json:"experience_level,omitempty"`
	Duration     string     `json:"duration"`
	PostedDate   string     `json:"posted_date,omitempty"`
	CreatedAt    string     `json:"created_at,omitempty"` // legacy name
	Proposals    *int       `json:"proposals,omitempty"`
	ClientID     string     `json:"client_id,omitempty"`
}

// RawFreelancer is a freelancer document as loaded from storage.
type RawFreelancer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Bio           string   `json:"bio"`
	Category      string   `json:"category"`
	Skills        []string `json:"skills"`
	HourlyRate    *float64 `json:"hourly_rate,omitempty"`
	Rate          *float64 `json:"rate,omitempty"` // legacy name
	Rating        *float64 `json:"rating,omitempty"`
	Experience    string   `json:"experience"`
	Availability  string   `json:"availability"`
	Location      string   `json:"location"`
	JoinedDate    string   `json:"joined_date,omitempty"`
	CompletedJobs *int     `json:"completed_jobs,omitempty"`
}

// RawMessage is a message document as loaded from storage.
type RawMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id,omitempty"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id"`
	Content        string `json:"content,omitempty"`
	Text           string `json:"message,omitempty"` // legacy name
	Timestamp      string `json:"timestamp,omitempty"`
	Read           bool   `json:"read"`
}

// NormalizeJob maps a raw job document onto the canonical Job shape.
// It is pure and idempotent: a round-tripped canonical job normalizes to
// itself. Returns ErrMalformedRecord when the document has no id.
func NormalizeJob(raw RawJob, now time.Time) (Job, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Job{}, fmt.Errorf("job: %w: missing id", ErrMalformedRecord)
	}

	j := Job{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Category:    raw.Category,
		Location:    raw.Location,
		Skills:      normalizeSkills(raw.Skills),
		Duration:    raw.Duration,
		ClientID:    raw.ClientID,
	}

	switch {
	case raw.Budget != nil:
		j.Budget = Budget{Type: budgetType(raw.Budget.Type), Min: clampNonNegative(raw.Budget.Min), Max: clampNonNegative(raw.Budget.Max)}
	case raw.BudgetAmount != nil:
		j.Budget = Budget{Type: BudgetFixed, Max: clampNonNegative(*raw.BudgetAmount)}
	default:
		j.Budget = Budget{Type: BudgetFixed}
	}

	j.Experience = raw.ExpLevel
	if j.Experience == "" {
		j.Experience = raw.Experience
	}

	j.PostedAt = parseTimestamp(raw.PostedDate, parseTimestamp(raw.CreatedAt, now))

	if raw.Proposals != nil && *raw.Proposals > 0 {
		j.Proposals = *raw.Proposals
	}

	return j, nil
}

// NormalizeFreelancer maps a raw freelancer document onto the canonical
// Freelancer shape. Missing rating defaults to 0, missing skills to an
// empty slice, missing join date to now.
func NormalizeFreelancer(raw RawFreelancer, now time.Time) (Freelancer, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Freelancer{}, fmt.Errorf("freelancer: %w: missing id", ErrMalformedRecord)
	}

	f := Freelancer{
		ID:         raw.ID,
		Name:       raw.Name,
		Title:      raw.Title,
		Bio:        raw.Bio,
		Category:   raw.Category,
		Skills:     normalizeSkills(raw.Skills),
		Experience: raw.Experience,
		Location:   raw.Location,
		JoinedAt:   parseTimestamp(raw.JoinedDate, now),
	}

	switch {
	case raw.HourlyRate != nil:
		f.HourlyRate = clampNonNegative(*raw.HourlyRate)
	case raw.Rate != nil:
		f.HourlyRate = clampNonNegative(*raw.Rate)
	}

	if raw.Rating != nil {
		f.Rating = clampRating(*raw.Rating)
	}

	if raw.Availability == string(Busy) {
		f.Availability = Busy
	} else {
		f.Availability = Available
	}

	if raw.CompletedJobs != nil && *raw.CompletedJobs > 0 {
		f.CompletedJobs = *raw.CompletedJobs
	}

	return f, nil
}

// NormalizeMessage maps a raw message document onto the canonical Message
// shape. When the document carries no conversation id, one is derived from
// the participant pair. Returns ErrMalformedMessage when the message has
// no id, or when neither a conversation id nor both participants exist.
func NormalizeMessage(raw RawMessage, now time.Time) (Message, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Message{}, fmt.Errorf("message: %w: missing id", ErrMalformedMessage)
	}

	m := Message{
		ID:             raw.ID,
		ConversationID: raw.ConversationID,
		SenderID:       raw.SenderID,
		ReceiverID:     raw.ReceiverID,
		Read:           raw.Read,
		Timestamp:      parseTimestamp(raw.Timestamp, now),
	}

	m.Content = raw.Content
	if m.Content == "" {
		m.Content = raw.Text
	}

	if m.ConversationID == "" {
		if raw.SenderID == "" || raw.ReceiverID == "" {
			return Message{}, fmt.Errorf("message %s: %w: no conversation id and no participant pair", raw.ID, ErrMalformedMessage)
		}
		m.ConversationID = ConversationID(raw.SenderID, raw.ReceiverID)
	}

	return m, nil
}

// normalizeSkills guarantees a non-nil slice with trimmed, non-empty entries.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func budgetType(t string) BudgetType {
	if t == string(BudgetHourly) {
		return BudgetHourly
	}
	return BudgetFixed
}

// parseTimestamp accepts RFC3339 (with or without sub-second precision)
// and falls back to the provided default.
func parseTimestamp(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return fallback
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
