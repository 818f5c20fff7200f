// Package credential defines the capability contracts matchers evaluate
// against, plus the concrete credential kinds the store and server work with.
//
// Matchers never reach into a credential's runtime shape. A candidate opts in
// to each question by implementing the corresponding interface: a matcher that
// needs a username checks for UsernameCredential, a matcher that needs an
// arbitrary property checks for PropertyReader. A candidate that does not
// implement the interface simply cannot match.
package credential

import "errors"

// ErrUnreadable is returned by PropertyReader implementations for properties
// that exist but refuse to be read (secrets, write-only settings).
var ErrUnreadable = errors.New("credential: property is not readable")

// Credential is the minimal contract for a matchable object.
type Credential interface {
	ID() string
}

// UsernameCredential is implemented by credentials that carry a username.
type UsernameCredential interface {
	Credential
	Username() string
}

// ScopedCredential is implemented by credentials that carry a storage scope.
type ScopedCredential interface {
	Credential
	Scope() Scope
}

// PropertyReader exposes named properties for matching.
//
// The three-way result mirrors the failure ladder property matchers rely on:
// ok reports whether the property exists at all, err reports a property that
// exists but could not be produced. Callers must treat both !ok and err as
// "cannot be asked", never as a fault.
type PropertyReader interface {
	ReadProperty(name string) (value any, ok bool, err error)
}
