package credential

// KindUsernamePassword and KindSecretToken are the storage discriminators for
// the built-in credential kinds.
const (
	KindUsernamePassword = "usernamePassword"
	KindSecretToken      = "secretToken"
)

// UsernamePassword is a username/password pair. The password is held but
// never exposed through property reads.
type UsernamePassword struct {
	id       string
	scope    Scope
	username string
	password string
	active   bool
}

func NewUsernamePassword(id string, scope Scope, username, password string, active bool) *UsernamePassword {
	return &UsernamePassword{id: id, scope: scope, username: username, password: password, active: active}
}

func (c *UsernamePassword) ID() string       { return c.id }
func (c *UsernamePassword) Scope() Scope     { return c.scope }
func (c *UsernamePassword) Username() string { return c.username }
func (c *UsernamePassword) Active() bool     { return c.active }

// Password is for the store and authenticators, not for matching.
func (c *UsernamePassword) Password() string { return c.password }

// ReadProperty exposes the matchable surface. The password property exists
// but is deliberately unreadable.
func (c *UsernamePassword) ReadProperty(name string) (any, bool, error) {
	switch name {
	case "id":
		return c.id, true, nil
	case "scope":
		return c.scope, true, nil
	case "username":
		return c.username, true, nil
	case "active":
		return c.active, true, nil
	case "password":
		return nil, true, ErrUnreadable
	default:
		return nil, false, nil
	}
}

// SecretToken is an opaque bearer secret. It has no username capability,
// which makes it invisible to username matchers.
type SecretToken struct {
	id     string
	scope  Scope
	secret string
}

func NewSecretToken(id string, scope Scope, secret string) *SecretToken {
	return &SecretToken{id: id, scope: scope, secret: secret}
}

func (c *SecretToken) ID() string     { return c.id }
func (c *SecretToken) Scope() Scope   { return c.scope }
func (c *SecretToken) Secret() string { return c.secret }

func (c *SecretToken) ReadProperty(name string) (any, bool, error) {
	switch name {
	case "id":
		return c.id, true, nil
	case "scope":
		return c.scope, true, nil
	case "secret":
		return nil, true, ErrUnreadable
	default:
		return nil, false, nil
	}
}
