// Package matcher implements predicate objects over credentials.
//
// A Matcher answers one question: does this credential satisfy my criterion.
// Matchers that additionally implement CQL can render the criterion as a
// query fragment for persistence and search UIs; not every matcher can, and
// not every expectation has a textual form, so Describe reports presence
// explicitly instead of inventing output.
//
// All matchers are immutable once constructed and safe for concurrent use.
package matcher

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
)

// Matcher tests whether a credential satisfies some criterion.
type Matcher interface {
	Matches(c credential.Credential) bool
}

// CQL is implemented by matchers that can describe themselves in the
// credential query language. Describe returns ok=false when the criterion has
// no textual form; callers needing text must treat that as "cannot be shown",
// never as a failure.
type CQL interface {
	Matcher
	Describe() (string, bool)
}

// Describe renders m if it supports description, reporting absence otherwise.
func Describe(m Matcher) (string, bool) {
	c, ok := m.(CQL)
	if !ok {
		return "", false
	}
	return c.Describe()
}

type equaler interface {
	Equal(Matcher) bool
}

type hasher interface {
	Hash() uint64
}

// matchersEqual compares two matchers by value. Matchers implementing Equal
// decide for themselves; anything else falls back to deep equality.
func matchersEqual(a, b Matcher) bool {
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

func hashOf(m Matcher) uint64 {
	if h, ok := m.(hasher); ok {
		return h.Hash()
	}
	return hashParts(fmt.Sprintf("%T", m))
}

// hashParts hashes a variant tag plus its fields. Parts are NUL-separated so
// ("a","bc") and ("ab","c") cannot collide.
func hashParts(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// joinDescriptions renders every sub-matcher and joins the fragments with sep
// inside parentheses. A single sub-matcher that cannot describe itself makes
// the whole result absent; a composite is rendered in full or not at all.
func joinDescriptions(subs []Matcher, sep string) (string, bool) {
	parts := make([]string, 0, len(subs))
	for _, m := range subs {
		d, ok := Describe(m)
		if !ok {
			return "", false
		}
		parts = append(parts, d)
	}
	return "(" + strings.Join(parts, sep) + ")", true
}

// copyMatchers snapshots the caller's slice so later mutation of the original
// cannot reach into a constructed composite.
func copyMatchers(subs []Matcher) []Matcher {
	out := make([]Matcher, len(subs))
	copy(out, subs)
	return out
}

// Option configures optional matcher behavior at construction.
type Option func(*options)

type options struct {
	log *zerolog.Logger
}

// WithLogger attaches a diagnostic trace sink. Matching and description emit
// leveled records through it: a Trace record per call and a Debug record of
// inputs and outcome. The sink is observational only; it never participates
// in equality and never changes a result. Without it the trace path costs
// nothing.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func traceCall(log *zerolog.Logger, self string, c credential.Credential, op string) {
	if log == nil {
		return
	}
	log.Trace().Str("matcher", self).Str("item", c.ID()).Msg(op)
}

func debugResult(log *zerolog.Logger, self string, c credential.Credential, result bool) {
	if log == nil {
		return
	}
	log.Debug().Str("matcher", self).Str("item", c.ID()).Bool("result", result).Msg("matches")
}

func debugDescribe(log *zerolog.Logger, self, desc string, ok bool) {
	if log == nil {
		return
	}
	log.Debug().Str("matcher", self).Str("cql", desc).Bool("describable", ok).Msg("describe")
}
