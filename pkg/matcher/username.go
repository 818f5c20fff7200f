package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/cql"
)

// UsernameMatcher matches credentials that carry a username equal to the
// expected one. Credentials without the username capability never match.
type UsernameMatcher struct {
	username string
	log      *zerolog.Logger
}

// NewUsername constructs a matcher for the given username. The empty string
// is a legal expectation (it matches credentials whose username is empty).
func NewUsername(username string, opts ...Option) *UsernameMatcher {
	o := applyOptions(opts)
	return &UsernameMatcher{username: username, log: o.log}
}

func (m *UsernameMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	uc, ok := c.(credential.UsernameCredential)
	result := ok && uc.Username() == m.username
	debugResult(m.log, self, c, result)
	return result
}

// Describe always succeeds; a username expectation is always a string.
func (m *UsernameMatcher) Describe() (string, bool) {
	desc := `(username == "` + cql.Escape(m.username) + `")`
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *UsernameMatcher) Equal(o Matcher) bool {
	other, ok := o.(*UsernameMatcher)
	return ok && other.username == m.username
}

func (m *UsernameMatcher) Hash() uint64 {
	return hashParts("username", m.username)
}

// Expected returns the username this matcher requires.
func (m *UsernameMatcher) Expected() string { return m.username }

func (m *UsernameMatcher) String() string {
	return fmt.Sprintf("Username(%q)", m.username)
}
