package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/matcher"
)

func testCredentials() []credential.Credential {
	return []credential.Credential{
		credential.NewUsernamePassword("cred-alice", credential.ScopeGlobal, "alice", "pw", true),
		credential.NewUsernamePassword("cred-bob", credential.ScopeUser, "bob", "pw", false),
		credential.NewSecretToken("tok-1", credential.ScopeSystem, "s3cr3t"),
	}
}

func TestEvaluateFindsMatchingFilters(t *testing.T) {
	e := Compile([]Filter{
		NewFilter("f-alice", "alice only", matcher.WithUsername("alice")),
		NewFilter("f-active", "active creds", matcher.WithProperty("active", true)),
		NewFilter("f-system", "system scope", matcher.WithScopes(credential.ScopeSystem)),
	})

	creds := testCredentials()
	assert.Equal(t, []string{"f-alice", "f-active"}, e.Evaluate(creds[0]))
	assert.Empty(t, e.Evaluate(creds[1]))
	assert.Equal(t, []string{"f-system"}, e.Evaluate(creds[2]))
}

func TestPrefilterNeverDropsMatches(t *testing.T) {
	// Every shape that must bypass the literal prefilter.
	filters := []Filter{
		NewFilter("not", "negation", matcher.Not(matcher.WithUsername("alice"))),
		NewFilter("prop", "property", matcher.WithProperty("active", false)),
		NewFilter("anyof-mixed", "anyof with literal-free branch",
			matcher.AnyOf(matcher.WithUsername("alice"), matcher.WithProperty("active", false))),
		NewFilter("always", "tautology", matcher.Always()),
	}
	e := Compile(filters)

	bob := credential.NewUsernamePassword("cred-bob", credential.ScopeUser, "bob", "pw", false)
	// none of bob's text contains "alice", yet all four filters match bob
	got := e.Evaluate(bob)
	assert.Equal(t, []string{"not", "prop", "anyof-mixed", "always"}, got)
}

func TestPrefilterScreensLiteralFilters(t *testing.T) {
	e := Compile([]Filter{
		NewFilter("f-alice", "", matcher.WithUsername("alice")),
		NewFilter("f-id", "", matcher.WithID("cred-carol")),
		NewFilter("f-either", "", matcher.AnyOf(matcher.WithUsername("alice"), matcher.WithUsername("bob"))),
	})
	require.Equal(t, 0, e.Stats().AlwaysEvaluate)
	// alice, cred-carol, bob; alice is deduped across filters
	assert.Equal(t, 3, e.Stats().PatternCount)

	carol := credential.NewUsernamePassword("cred-carol", credential.ScopeGlobal, "carol", "pw", true)
	assert.Equal(t, []string{"f-id"}, e.Evaluate(carol))
}

func TestConjunctionUsesAnyBranchLiteral(t *testing.T) {
	// AllOf(property, username): the username literal is required even though
	// the first branch has none.
	e := Compile([]Filter{
		NewFilter("f", "", matcher.AllOf(
			matcher.WithProperty("active", true),
			matcher.WithUsername("alice"),
		)),
	})
	assert.Equal(t, 0, e.Stats().AlwaysEvaluate)
	assert.Equal(t, 1, e.Stats().PatternCount)

	alice := credential.NewUsernamePassword("cred-alice", credential.ScopeGlobal, "alice", "pw", true)
	assert.Equal(t, []string{"f"}, e.Evaluate(alice))
}

func TestNeverMatchingFiltersAreNeverCandidates(t *testing.T) {
	e := Compile([]Filter{
		NewFilter("never", "", matcher.Never()),
		NewFilter("empty-anyof", "", matcher.AnyOf()),
	})
	assert.Equal(t, 0, e.Stats().AlwaysEvaluate)
	for _, c := range testCredentials() {
		assert.Empty(t, e.Evaluate(c))
	}
}

func TestEmptyUsernameIsNotATrustworthyLiteral(t *testing.T) {
	e := Compile([]Filter{
		NewFilter("f-empty", "", matcher.WithUsername("")),
	})
	// must fall into always-evaluate, not become a useless pattern
	assert.Equal(t, 1, e.Stats().AlwaysEvaluate)

	anon := credential.NewUsernamePassword("anon", credential.ScopeUser, "", "pw", true)
	assert.Equal(t, []string{"f-empty"}, e.Evaluate(anon))
}

func TestOverlappingLiteralsBothCandidate(t *testing.T) {
	// "alice" is a substring of "alice-admin": both filters need their hit
	// reported for the same scan.
	e := Compile([]Filter{
		NewFilter("short", "", matcher.WithUsername("alice")),
		NewFilter("long", "", matcher.WithUsername("alice-admin")),
	})
	admin := credential.NewUsernamePassword("c1", credential.ScopeGlobal, "alice-admin", "pw", true)
	assert.Equal(t, []string{"long"}, e.Evaluate(admin))

	plain := credential.NewUsernamePassword("c2", credential.ScopeGlobal, "alice", "pw", true)
	assert.Equal(t, []string{"short"}, e.Evaluate(plain))
}

func TestNewFilterRendersCQL(t *testing.T) {
	f := NewFilter("f", "t", matcher.AllOf(matcher.WithUsername("alice"), matcher.WithProperty("active", true)))
	require.True(t, f.Describable())
	assert.Equal(t, `((username == "alice") && true)`, f.CQL)

	opaque := NewFilter("o", "t", matcher.WithProperty("blob", struct{}{}))
	assert.False(t, opaque.Describable())
	assert.Empty(t, opaque.CQL)
}

func TestFiltersAccessors(t *testing.T) {
	fs := []Filter{
		NewFilter("a", "", matcher.Always()),
		NewFilter("b", "", matcher.Never()),
	}
	e := Compile(fs)
	got := e.Filters()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)

	f, ok := e.Filter("b")
	require.True(t, ok)
	assert.Equal(t, "b", f.ID)

	_, ok = e.Filter("missing")
	assert.False(t, ok)
}
