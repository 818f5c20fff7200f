package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
)

// NotMatcher negates another matcher.
type NotMatcher struct {
	sub Matcher
	log *zerolog.Logger
}

func NewNot(sub Matcher, opts ...Option) *NotMatcher {
	o := applyOptions(opts)
	return &NotMatcher{sub: sub, log: o.log}
}

func (m *NotMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	result := !m.sub.Matches(c)
	debugResult(m.log, self, c, result)
	return result
}

// Describe renders !(sub); absent if the sub-matcher cannot describe itself.
func (m *NotMatcher) Describe() (string, bool) {
	d, ok := Describe(m.sub)
	if !ok {
		debugDescribe(m.log, m.String(), "", false)
		return "", false
	}
	desc := "!(" + d + ")"
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *NotMatcher) Equal(o Matcher) bool {
	other, ok := o.(*NotMatcher)
	return ok && matchersEqual(m.sub, other.sub)
}

func (m *NotMatcher) Hash() uint64 {
	return hashParts("not")*31 + hashOf(m.sub)
}

func (m *NotMatcher) String() string {
	return fmt.Sprintf("Not(%v)", m.sub)
}

// Sub returns the negated matcher for tree walkers.
func (m *NotMatcher) Sub() Matcher { return m.sub }
