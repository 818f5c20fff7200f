package credential

import "fmt"

// Scope is where a credential is visible from.
type Scope int

const (
	// ScopeGlobal credentials are visible everywhere.
	ScopeGlobal Scope = iota
	// ScopeSystem credentials are only usable by the system itself.
	ScopeSystem
	// ScopeUser credentials belong to a single user.
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "GLOBAL"
	case ScopeSystem:
		return "SYSTEM"
	case ScopeUser:
		return "USER"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// EnumType qualifies scope labels in rendered queries.
func (Scope) EnumType() string { return "CredentialScope" }

// EnumLabel is the bare label used in rendered queries.
func (s Scope) EnumLabel() string { return s.String() }

// ParseScope maps a label back to its Scope.
func ParseScope(label string) (Scope, error) {
	switch label {
	case "GLOBAL":
		return ScopeGlobal, nil
	case "SYSTEM":
		return ScopeSystem, nil
	case "USER":
		return ScopeUser, nil
	default:
		return 0, fmt.Errorf("credential: unknown scope %q", label)
	}
}
