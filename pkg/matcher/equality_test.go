package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/credmatch/credmatch/pkg/credential"
)

func TestEqualAndHashConsistency(t *testing.T) {
	pairs := []struct {
		name string
		a, b interface {
			Matcher
			Equal(Matcher) bool
			Hash() uint64
		}
	}{
		{"username", NewUsername("alice"), NewUsername("alice")},
		{"id", NewID("c1"), NewID("c1")},
		{"property", NewProperty("active", true), NewProperty("active", true)},
		{"property nil", NewProperty("note", nil), NewProperty("note", nil)},
		{"constant", NewConstant(true), NewConstant(true)},
		{"not", NewNot(NewUsername("a")), NewNot(NewUsername("a"))},
		{"scopes", NewScopes([]credential.Scope{credential.ScopeGlobal}), NewScopes([]credential.Scope{credential.ScopeGlobal})},
		{"allOf", NewAllOf([]Matcher{NewUsername("a"), NewID("b")}), NewAllOf([]Matcher{NewUsername("a"), NewID("b")})},
		{"anyOf", NewAnyOf([]Matcher{NewUsername("a")}), NewAnyOf([]Matcher{NewUsername("a")})},
	}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			assert.True(t, p.a.Equal(p.b))
			assert.True(t, p.b.Equal(p.a))
			assert.Equal(t, p.a.Hash(), p.b.Hash(), "equal matchers must hash identically")
		})
	}
}

func TestUnequalOnAnyArgument(t *testing.T) {
	assert.False(t, NewUsername("alice").Equal(NewUsername("bob")))
	assert.False(t, NewUsername("alice").Equal(NewID("alice")))
	assert.False(t, NewProperty("active", true).Equal(NewProperty("active", false)))
	assert.False(t, NewProperty("active", true).Equal(NewProperty("enabled", true)))
	assert.False(t, NewConstant(true).Equal(NewConstant(false)))
}

func TestAllOfEqualityIsOrderSensitive(t *testing.T) {
	ab := NewAllOf([]Matcher{NewUsername("a"), NewUsername("b")})
	ba := NewAllOf([]Matcher{NewUsername("b"), NewUsername("a")})
	assert.False(t, ab.Equal(ba))

	ab2 := NewAllOf([]Matcher{NewUsername("a"), NewUsername("b")})
	assert.True(t, ab.Equal(ab2))
}

func TestLoggerDoesNotAffectEquality(t *testing.T) {
	logged := NewUsername("alice", WithLogger(nil))
	assert.True(t, NewUsername("alice").Equal(logged))
}
