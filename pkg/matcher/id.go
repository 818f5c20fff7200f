package matcher

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/cql"
)

// IDMatcher matches credentials by exact ID.
type IDMatcher struct {
	id  string
	log *zerolog.Logger
}

func NewID(id string, opts ...Option) *IDMatcher {
	o := applyOptions(opts)
	return &IDMatcher{id: id, log: o.log}
}

func (m *IDMatcher) Matches(c credential.Credential) bool {
	self := m.String()
	traceCall(m.log, self, c, "matches")
	result := c.ID() == m.id
	debugResult(m.log, self, c, result)
	return result
}

func (m *IDMatcher) Describe() (string, bool) {
	desc := `(id == "` + cql.Escape(m.id) + `")`
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *IDMatcher) Equal(o Matcher) bool {
	other, ok := o.(*IDMatcher)
	return ok && other.id == m.id
}

func (m *IDMatcher) Hash() uint64 {
	return hashParts("id", m.id)
}

// Expected returns the ID this matcher requires.
func (m *IDMatcher) Expected() string { return m.id }

func (m *IDMatcher) String() string {
	return fmt.Sprintf("ID(%q)", m.id)
}
