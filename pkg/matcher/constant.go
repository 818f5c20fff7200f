package matcher

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
)

// ConstantMatcher ignores the candidate and always returns its fixed value.
// It guards call sites that need "no filtering" or "filter everything out"
// without a nil check.
type ConstantMatcher struct {
	value bool
	log   *zerolog.Logger
}

func NewConstant(value bool, opts ...Option) *ConstantMatcher {
	o := applyOptions(opts)
	return &ConstantMatcher{value: value, log: o.log}
}

func (m *ConstantMatcher) Matches(c credential.Credential) bool {
	traceCall(m.log, m.String(), c, "matches")
	debugResult(m.log, m.String(), c, m.value)
	return m.value
}

func (m *ConstantMatcher) Describe() (string, bool) {
	desc := strconv.FormatBool(m.value)
	debugDescribe(m.log, m.String(), desc, true)
	return desc, true
}

func (m *ConstantMatcher) Equal(o Matcher) bool {
	other, ok := o.(*ConstantMatcher)
	return ok && other.value == m.value
}

func (m *ConstantMatcher) Hash() uint64 {
	return hashParts("constant", strconv.FormatBool(m.value))
}

func (m *ConstantMatcher) String() string {
	return "Constant(" + strconv.FormatBool(m.value) + ")"
}

// Value reports the fixed result, for tree walkers.
func (m *ConstantMatcher) Value() bool { return m.value }
