package query

// Default engine configuration constants.
const (
	defaultPageSize = 10
	defaultSortKey  = SortNewest
)

// settings holds the non-generic engine configuration.
type settings struct {
	pageSize int
	sortKey  SortKey
}

func newSettings() *settings {
	return &settings{
		pageSize: defaultPageSize,
		sortKey:  defaultSortKey,
	}
}

// Option applies a configuration option to an Engine under construction.
type Option func(*settings)

// WithPageSize sets the number of records revealed per page.
func WithPageSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithSortKey sets the initial sort order. An empty key keeps the default.
func WithSortKey(key SortKey) Option {
	return func(s *settings) {
		if key != "" {
			s.sortKey = key
		}
	}
}
