package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
)

// AnyOfMatcher is the disjunction of an ordered list of sub-matchers. The
// empty disjunction never matches.
type AnyOfMatcher struct {
	matchers []Matcher
	log      *zerolog.Logger
}

// NewAnyOf copies subs; the caller's slice is never aliased.
func NewAnyOf(subs []Matcher, opts ...Option) *AnyOfMatcher {
	o := applyOptions(opts)
	return &AnyOfMatcher{matchers: copyMatchers(subs), log: o.log}
}

// Matches evaluates sub-matchers in order and short-circuits on the first
// true.
func (m *AnyOfMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	for _, sub := range m.matchers {
		if sub.Matches(c) {
			debugResult(m.log, self, c, true)
			return true
		}
	}
	debugResult(m.log, self, c, false)
	return false
}

// Describe follows the same all-or-nothing rule as the conjunction. The
// empty disjunction renders as the contradiction "false".
func (m *AnyOfMatcher) Describe() (string, bool) {
	if len(m.matchers) == 0 {
		debugDescribe(m.log, m.String(), "false", true)
		return "false", true
	}
	desc, ok := joinDescriptions(m.matchers, " || ")
	debugDescribe(m.log, m.String(), desc, ok)
	return desc, ok
}

func (m *AnyOfMatcher) Equal(o Matcher) bool {
	other, ok := o.(*AnyOfMatcher)
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

func (m *AnyOfMatcher) Hash() uint64 {
	h := hashParts("anyOf")
	for _, sub := range m.matchers {
		h = h*31 + hashOf(sub)
	}
	return h
}

func (m *AnyOfMatcher) String() string {
	return fmt.Sprintf("AnyOf(%v)", m.matchers)
}

// Sub returns the stored sub-matchers for tree walkers. The returned slice
// must not be mutated.
func (m *AnyOfMatcher) Sub() []Matcher { return m.matchers }
