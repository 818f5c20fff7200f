package matcher

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/cql"
)

// PropertyMatcher matches credentials whose named property equals an expected
// value. Candidates expose properties through credential.PropertyReader; a
// candidate that cannot be asked the question — no PropertyReader capability,
// no such property, or a read that fails — does not match. Being unanswerable
// is indistinguishable from answering no, so a matcher never propagates a
// failure merely because a credential has the wrong shape.
type PropertyMatcher struct {
	name     string
	expected any
	log      *zerolog.Logger
}

// NewProperty constructs a matcher for the named property. expected may be
// nil, which matches a property whose live value is also nil.
func NewProperty(name string, expected any, opts ...Option) *PropertyMatcher {
	o := applyOptions(opts)
	return &PropertyMatcher{name: name, expected: expected, log: o.log}
}

func (m *PropertyMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")

	pr, ok := c.(credential.PropertyReader)
	if !ok {
		debugResult(m.log, self, c, false)
		return false
	}
	actual, ok, err := pr.ReadProperty(m.name)
	if err != nil || !ok {
		debugResult(m.log, self, c, false)
		return false
	}
	result := equalValues(m.expected, actual)
	debugResult(m.log, self, c, result)
	return result
}

// Describe renders the expectation when its kind has a CQL form. A bool
// renders bare rather than as a comparison; kinds outside the renderable set
// make the description absent.
func (m *PropertyMatcher) Describe() (string, bool) {
	if b, ok := m.expected.(bool); ok {
		desc := strconv.FormatBool(b)
		debugDescribe(m.log, m.String(), desc, true)
		return desc, true
	}
	lit, ok := cql.Literal(m.expected)
	if !ok {
		debugDescribe(m.log, m.String(), "", false)
		return "", false
	}
	desc := "(" + m.name + " == " + lit + ")"
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *PropertyMatcher) Equal(o Matcher) bool {
	other, ok := o.(*PropertyMatcher)
	return ok && other.name == m.name && equalValues(other.expected, m.expected)
}

func (m *PropertyMatcher) Hash() uint64 {
	return hashParts("property", m.name, fmt.Sprintf("%T=%v", m.expected, m.expected))
}

func (m *PropertyMatcher) String() string {
	return fmt.Sprintf("Property(%q, %v)", m.name, m.expected)
}

// equalValues is null-safe structural equality: two nils are equal, nil never
// equals a value, everything else compares structurally.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
