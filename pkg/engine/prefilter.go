package engine

import (
	"github.com/credmatch/credmatch/pkg/matcher"
)

// requiredLiterals walks a matcher tree and returns literals with the
// property that the tree cannot match a credential unless at least one of
// them occurs in the credential's scannable text. ok=false means no such set
// exists and the filter must always be evaluated.
//
// The analysis under-approximates on purpose:
//   - Username/ID leaves require their literal (the scanned text contains
//     both fields). The empty string occurs in every text and guarantees
//     nothing, so it yields no requirement.
//   - AllOf: any single sub-matcher's requirement suffices for the whole
//     conjunction; the first sub with one wins.
//   - AnyOf: every branch must carry a requirement; the union is required.
//     A branch without one means the disjunction can fire literal-free.
//   - Never-matching trees (empty AnyOf, Constant(false)) require an empty
//     literal set: no pattern can hit, so the filter is correctly never a
//     candidate.
//   - Not, Property, Scope, Constant(true) and unknown matchers can match
//     without any literal evidence.
func requiredLiterals(m matcher.Matcher) ([]string, bool) {
	switch t := m.(type) {
	case *matcher.UsernameMatcher:
		return leafLiteral(t.Expected())
	case *matcher.IDMatcher:
		return leafLiteral(t.Expected())
	case *matcher.AllOfMatcher:
		for _, sub := range t.Sub() {
			if lits, ok := requiredLiterals(sub); ok {
				return lits, true
			}
		}
		return nil, false
	case *matcher.AnyOfMatcher:
		var union []string
		for _, sub := range t.Sub() {
			lits, ok := requiredLiterals(sub)
			if !ok {
				return nil, false
			}
			union = append(union, lits...)
		}
		return union, true
	case *matcher.ConstantMatcher:
		if !t.Value() {
			return nil, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func leafLiteral(lit string) ([]string, bool) {
	if lit == "" {
		return nil, false
	}
	return []string{lit}, true
}
