package domain

// Comparison is the added/deleted structural difference of one component
// between two registry snapshots.
type Comparison struct {
	Added   ComponentDoc `yaml:"added"`
	Deleted ComponentDoc `yaml:"deleted"`
}

// ComparisonMap keys component comparisons by component name. Only
// components with a non-empty diff in either direction appear.
type ComparisonMap map[string]Comparison
