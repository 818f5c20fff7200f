package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/cql"
)

// ScopeMatcher matches scoped credentials whose scope is one of an ordered
// list of allowed scopes. Credentials without the scope capability never
// match.
type ScopeMatcher struct {
	scopes []credential.Scope
	log    *zerolog.Logger
}

// NewScopes copies scopes; the caller's slice is never aliased.
func NewScopes(scopes []credential.Scope, opts ...Option) *ScopeMatcher {
	o := applyOptions(opts)
	cp := make([]credential.Scope, len(scopes))
	copy(cp, scopes)
	return &ScopeMatcher{scopes: cp, log: o.log}
}

func (m *ScopeMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	sc, ok := c.(credential.ScopedCredential)
	if !ok {
		debugResult(m.log, self, c, false)
		return false
	}
	for _, s := range m.scopes {
		if sc.Scope() == s {
			debugResult(m.log, self, c, true)
			return true
		}
	}
	debugResult(m.log, self, c, false)
	return false
}

// Describe renders a scope comparison per allowed scope, joined as a
// disjunction. No allowed scopes renders as "false".
func (m *ScopeMatcher) Describe() (string, bool) {
	if len(m.scopes) == 0 {
		debugDescribe(m.log, m.String(), "false", true)
		return "false", true
	}
	parts := make([]string, 0, len(m.scopes))
	for _, s := range m.scopes {
		lit, _ := cql.Literal(s)
		parts = append(parts, "(scope == "+lit+")")
	}
	desc := parts[0]
	if len(parts) > 1 {
		desc = "(" + parts[0]
		for _, p := range parts[1:] {
			desc += " || " + p
		}
		desc += ")"
	}
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *ScopeMatcher) Equal(o Matcher) bool {
	other, ok := o.(*ScopeMatcher)
	if !ok || len(other.scopes) != len(m.scopes) {
		return false
	}
	for i := range m.scopes {
		if m.scopes[i] != other.scopes[i] {
			return false
		}
	}
	return true
}

func (m *ScopeMatcher) Hash() uint64 {
	parts := []string{"scope"}
	for _, s := range m.scopes {
		parts = append(parts, s.String())
	}
	return hashParts(parts...)
}

func (m *ScopeMatcher) String() string {
	return fmt.Sprintf("Scopes(%v)", m.scopes)
}
