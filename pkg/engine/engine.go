// Package engine evaluates a compiled set of filters against credentials.
//
// Compilation collects the exact username/id literals each filter tree
// requires and builds an Aho-Corasick automaton over them. At evaluation time
// the credential's scannable text is scanned once; only filters with a
// literal hit (plus filters that could match without any literal) run their
// full matcher tree. The prefilter is purely an optimization: it may admit
// extra candidates but must never drop a filter that could match.
package engine

import (
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"
	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/matcher"
)

// Filter is a named matcher tree. CQL holds the rendered query text when the
// tree is describable, otherwise the empty string.
type Filter struct {
	ID      string
	Title   string
	Matcher matcher.Matcher
	CQL     string
}

// NewFilter builds a Filter, rendering CQL when the tree supports it.
func NewFilter(id, title string, m matcher.Matcher) Filter {
	f := Filter{ID: id, Title: title, Matcher: m}
	if d, ok := matcher.Describe(m); ok {
		f.CQL = d
	}
	return f
}

// Describable reports whether the filter has a rendered query form.
func (f Filter) Describable() bool { return f.CQL != "" }

// Stats summarizes the compiled prefilter.
type Stats struct {
	FilterCount          int     `json:"filter_count"`
	PatternCount         int     `json:"pattern_count"`
	AlwaysEvaluate       int     `json:"always_evaluate"`
	EstimatedSelectivity float64 `json:"estimated_selectivity"`
}

// Engine is a compiled, immutable filter set. Safe for concurrent Evaluate
// calls.
type Engine struct {
	filters map[string]Filter
	order   []string

	automaton    *ac.AhoCorasick
	patterns     []string
	patToFilters map[int][]string
	alwaysEval   []string

	stats Stats
	log   *zerolog.Logger
}

// CompileOption configures compilation.
type CompileOption func(*compileOptions)

type compileOptions struct {
	log *zerolog.Logger
}

// WithLogger attaches a diagnostic sink for compilation and evaluation.
func WithLogger(l *zerolog.Logger) CompileOption {
	return func(o *compileOptions) { o.log = l }
}

// Compile builds an Engine from filters. Filter order is preserved in
// Evaluate results; duplicate IDs keep the last definition.
func Compile(filters []Filter, opts ...CompileOption) *Engine {
	var co compileOptions
	for _, opt := range opts {
		opt(&co)
	}

	e := &Engine{
		filters:      make(map[string]Filter, len(filters)),
		patToFilters: make(map[int][]string),
		log:          co.log,
	}

	// dedupe patterns, remember which filters each one wakes up
	patIdx := make(map[string]int)
	for _, f := range filters {
		if _, seen := e.filters[f.ID]; !seen {
			e.order = append(e.order, f.ID)
		}
		e.filters[f.ID] = f

		lits, ok := requiredLiterals(f.Matcher)
		if !ok {
			e.alwaysEval = append(e.alwaysEval, f.ID)
			continue
		}
		for _, lit := range lits {
			idx, seen := patIdx[lit]
			if !seen {
				idx = len(e.patterns)
				e.patterns = append(e.patterns, lit)
				patIdx[lit] = idx
			}
			e.patToFilters[idx] = append(e.patToFilters[idx], f.ID)
		}
	}

	if len(e.patterns) > 0 {
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			AsciiCaseInsensitive: false,
			MatchOnlyWholeWords:  false,
			MatchKind:            ac.StandardMatch,
		})
		built := builder.Build(e.patterns)
		e.automaton = &built
	}

	e.stats = Stats{
		FilterCount:          len(e.filters),
		PatternCount:         len(e.patterns),
		AlwaysEvaluate:       len(e.alwaysEval),
		EstimatedSelectivity: estimateSelectivity(len(e.patterns), len(e.alwaysEval), len(e.filters)),
	}
	if e.log != nil {
		e.log.Info().
			Int("filters", e.stats.FilterCount).
			Int("patterns", e.stats.PatternCount).
			Int("always_evaluate", e.stats.AlwaysEvaluate).
			Msg("engine compiled")
	}
	return e
}

// Evaluate returns the IDs of all filters matching c, in compile order.
func (e *Engine) Evaluate(c credential.Credential) []string {
	candidates := make(map[string]struct{}, len(e.alwaysEval))
	for _, id := range e.alwaysEval {
		candidates[id] = struct{}{}
	}

	if e.automaton != nil {
		text := scanText(c)
		iter := e.automaton.IterOverlapping(text)
		for m := iter.Next(); m != nil; m = iter.Next() {
			for _, id := range e.patToFilters[m.Pattern()] {
				candidates[id] = struct{}{}
			}
		}
	}

	var out []string
	for _, id := range e.order {
		if _, ok := candidates[id]; !ok {
			continue
		}
		f := e.filters[id]
		if f.Matcher.Matches(c) {
			out = append(out, id)
		}
	}
	if e.log != nil {
		e.log.Debug().
			Str("item", c.ID()).
			Int("candidates", len(candidates)).
			Int("matched", len(out)).
			Msg("evaluate")
	}
	return out
}

// Filters returns the compiled filters in compile order.
func (e *Engine) Filters() []Filter {
	out := make([]Filter, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.filters[id])
	}
	return out
}

// Filter looks up a compiled filter by ID.
func (e *Engine) Filter(id string) (Filter, bool) {
	f, ok := e.filters[id]
	return f, ok
}

func (e *Engine) Stats() Stats { return e.stats }

// scanText is the credential text the prefilter scans: the ID plus the
// username when the credential has one. Literal collection must stay in sync
// with this (only username/id literals are required literals).
func scanText(c credential.Credential) string {
	var sb strings.Builder
	sb.WriteString(c.ID())
	if uc, ok := c.(credential.UsernameCredential); ok {
		sb.WriteByte(' ')
		sb.WriteString(uc.Username())
	}
	return sb.String()
}

// estimateSelectivity is a coarse heuristic: more patterns and fewer
// always-evaluate filters mean a more selective prefilter.
func estimateSelectivity(patterns, alwaysEval, filters int) float64 {
	if filters == 0 || patterns == 0 {
		return 1.0
	}
	base := float64(alwaysEval) / float64(filters)
	perPattern := 1.0 / (1.0 + float64(patterns)/10.0)
	s := base + (1.0-base)*perPattern
	if s > 1.0 {
		s = 1.0
	}
	return s
}
