// Package query implements the listing query engine: a filter, sort and
// paginate pipeline over canonical job and freelancer records.
package query

import "strings"

// Criteria is an immutable snapshot of every active filter predicate.
// An empty string or empty set means the predicate is disabled: it never
// rejects a record. Callers compose a full Criteria and replace it
// wholesale via Engine.SetCriteria; there is no partial merge.
type Criteria struct {
	// Search is a free-text term matched case-insensitively against
	// title, description/bio, name and skills. OR across fields.
	Search string

	// Location is a case-insensitive substring match on the record location.
	Location string

	// Set-membership predicates. A record matches when its value is a
	// member, or the set is empty.
	Categories   []string
	Experience   []string
	Durations    []string
	Types        []string
	Availability []string

	// Numeric-bucket predicates. A record matches when its value falls in
	// any selected bucket (OR across buckets).
	Budgets []string
	Rates   []string
	Ratings []string

	// Regions holds named location buckets for freelancer browsing
	// (remote, us, europe, asia). OR across regions.
	Regions []string
}

// normalized returns a copy with search terms trimmed, so that empty and
// whitespace-only input disables the text predicates.
func (c Criteria) normalized() Criteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Location = strings.TrimSpace(c.Location)
	return c
}

// memberOf reports set membership with empty-set pass-through.
func memberOf(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
