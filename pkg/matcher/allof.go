package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
)

// AllOfMatcher is the conjunction of an ordered list of sub-matchers. The
// empty conjunction is vacuously true.
type AllOfMatcher struct {
	matchers []Matcher
	log      *zerolog.Logger
}

// NewAllOf copies subs; the caller's slice is never aliased.
func NewAllOf(subs []Matcher, opts ...Option) *AllOfMatcher {
	o := applyOptions(opts)
	return &AllOfMatcher{matchers: copyMatchers(subs), log: o.log}
}

// Matches evaluates sub-matchers in order and short-circuits on the first
// false. Order never changes the boolean result, only how many sub-matchers
// get asked.
func (m *AllOfMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	for _, sub := range m.matchers {
		if !sub.Matches(c) {
			debugResult(m.log, self, c, false)
			return false
		}
	}
	debugResult(m.log, self, c, true)
	return true
}

// Describe renders the conjunction, or reports absence if any sub-matcher
// cannot describe itself: a conjunction is never partially rendered. The
// empty conjunction renders as the tautology "true".
func (m *AllOfMatcher) Describe() (string, bool) {
	if len(m.matchers) == 0 {
		debugDescribe(m.log, m.String(), "true", true)
		return "true", true
	}
	desc, ok := joinDescriptions(m.matchers, " && ")
	debugDescribe(m.log, m.String(), desc, ok)
	return desc, ok
}

// Equal is order-sensitive over the sub-matcher sequence.
func (m *AllOfMatcher) Equal(o Matcher) bool {
	other, ok := o.(*AllOfMatcher)
	if !ok || len(other.matchers) != len(m.matchers) {
		return false
	}
	for i := range m.matchers {
		if !matchersEqual(m.matchers[i], other.matchers[i]) {
			return false
		}
	}
	return true
}

func (m *AllOfMatcher) Hash() uint64 {
	h := hashParts("allOf")
	for _, sub := range m.matchers {
		h = h*31 + hashOf(sub)
	}
	return h
}

func (m *AllOfMatcher) String() string {
	return fmt.Sprintf("AllOf(%v)", m.matchers)
}

// Sub returns the stored sub-matchers for tree walkers. The returned slice
// must not be mutated.
func (m *AllOfMatcher) Sub() []Matcher { return m.matchers }
