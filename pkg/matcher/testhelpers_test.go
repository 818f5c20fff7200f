package matcher

import (
	"errors"

	"github.com/credmatch/credmatch/pkg/credential"
)

// bareCredential has an ID and nothing else: no username, no scope, no
// readable properties.
type bareCredential struct {
	id string
}

func (b bareCredential) ID() string { return b.id }

// brokenCredential claims every property exists but fails to produce it.
type brokenCredential struct {
	id string
}

func (b brokenCredential) ID() string { return b.id }

func (b brokenCredential) ReadProperty(string) (any, bool, error) {
	return nil, true, errors.New("backing store unavailable")
}

// nilPropCredential has a single property whose live value is nil.
type nilPropCredential struct{}

func (nilPropCredential) ID() string { return "nil-prop" }

func (nilPropCredential) ReadProperty(name string) (any, bool, error) {
	if name == "note" {
		return nil, true, nil
	}
	return nil, false, nil
}

// opaqueMatcher matches everything but has no CQL form at all.
type opaqueMatcher struct{}

func (opaqueMatcher) Matches(credential.Credential) bool { return true }

// callCounter records whether it was evaluated, for short-circuit tests.
type callCounter struct {
	result bool
	calls  int
}

func (c *callCounter) Matches(credential.Credential) bool {
	c.calls++
	return c.result
}

func alice() *credential.UsernamePassword {
	return credential.NewUsernamePassword("cred-alice", credential.ScopeGlobal, "alice", "wonderland", true)
}

func bob() *credential.UsernamePassword {
	return credential.NewUsernamePassword("cred-bob", credential.ScopeUser, "bob", "builder", false)
}
