package matcher

import "github.com/credmatch/credmatch/pkg/credential"

// Convenience constructors for building matcher trees inline.

// Always matches every credential.
func Always() Matcher { return NewConstant(true) }

// Never matches no credential.
func Never() Matcher { return NewConstant(false) }

// Not negates m.
func Not(m Matcher) Matcher { return NewNot(m) }

// AllOf matches credentials satisfying every given matcher.
func AllOf(ms ...Matcher) Matcher { return NewAllOf(ms) }

// AnyOf matches credentials satisfying at least one given matcher.
func AnyOf(ms ...Matcher) Matcher { return NewAnyOf(ms) }

// WithID matches credentials with the exact ID.
func WithID(id string) Matcher { return NewID(id) }

// WithUsername matches username-bearing credentials with the exact username.
func WithUsername(username string) Matcher { return NewUsername(username) }

// WithScopes matches scoped credentials in any of the given scopes.
func WithScopes(scopes ...credential.Scope) Matcher { return NewScopes(scopes) }

// WithProperty matches credentials whose named property equals expected.
func WithProperty(name string, expected any) Matcher { return NewProperty(name, expected) }
