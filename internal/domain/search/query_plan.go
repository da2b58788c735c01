package search

import "github.com/flavorgraph/sous-chef/pkg/errors"

// QueryPlan maps every fixed collection to the one or two search queries the
// Query Planner (C5) generated for it. Construction enforces the eight-key
// invariant so downstream stages (C6) never have to special-case a missing
// or unknown collection.
type QueryPlan struct {
	queries map[string][]string
}

// NewQueryPlan validates that raw covers exactly the eight fixed collections
// with one or two non-empty queries each, padding or trimming as needed, and
// falling back to the static per-collection queries for anything missing or
// malformed (spec §4.5 steps 3-5).
func NewQueryPlan(raw map[string][]string) QueryPlan {
	queries := make(map[string][]string, len(Names))
	for _, name := range Names {
		qs := sanitizeQueries(raw[name])
		if len(qs) == 0 {
			qs = FallbackQueries(name)
		}
		queries[name] = qs
	}
	return QueryPlan{queries: queries}
}

func sanitizeQueries(qs []string) []string {
	out := make([]string, 0, 2)
	for _, q := range qs {
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == 2 {
			break
		}
	}
	return out
}

// Queries returns the queries planned for a collection, or nil if name is
// not one of the fixed collections.
func (p QueryPlan) Queries(name string) []string { return p.queries[name] }

// Collections returns the collections this plan covers, in the fixed
// display order. A freshly built QueryPlan covers all eight; a Restrict-ed
// plan covers only the whitelisted subset.
func (p QueryPlan) Collections() []string {
	names := make([]string, 0, len(p.queries))
	for _, name := range Names {
		if _, ok := p.queries[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Restrict returns a new QueryPlan containing only the collections named in
// names, dropping all others (spec §4.8 step 4). Names that are not one of
// the fixed eight collections are ignored.
func (p QueryPlan) Restrict(names []string) QueryPlan {
	queries := make(map[string][]string, len(names))
	for _, name := range names {
		if qs, ok := p.queries[name]; ok {
			queries[name] = qs
		}
	}
	return QueryPlan{queries: queries}
}

// IsEmpty reports whether this plan covers zero collections.
func (p QueryPlan) IsEmpty() bool { return len(p.queries) == 0 }

// Validate reports an error if the plan does not cover every fixed
// collection with at least one query; NewQueryPlan never produces an
// invalid plan, so this exists for callers that build one by hand (tests).
func (p QueryPlan) Validate() error {
	for _, name := range Names {
		if len(p.queries[name]) == 0 {
			return errors.NewInvalidInputError("query plan missing queries for collection " + name)
		}
	}
	return nil
}
