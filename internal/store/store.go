// Package store persists credentials and saved queries in Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/engine"
)

// Store wraps a Postgres handle. All methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func New(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		scope TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		secret TEXT NOT NULL DEFAULT '',
		properties JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS saved_queries (
		filter_id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		cql TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// UpsertCredential writes or updates one credential row.
func (s *Store) UpsertCredential(ctx context.Context, c credential.Credential) error {
	var kind, username, secret string
	props := map[string]any{}

	switch t := c.(type) {
	case *credential.UsernamePassword:
		kind = credential.KindUsernamePassword
		username = t.Username()
		secret = t.Password()
		props["active"] = t.Active()
	case *credential.SecretToken:
		kind = credential.KindSecretToken
		secret = t.Secret()
	default:
		return fmt.Errorf("store: unsupported credential kind %T", c)
	}

	sc, ok := c.(credential.ScopedCredential)
	if !ok {
		return fmt.Errorf("store: credential %s has no scope", c.ID())
	}

	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("store: marshal properties for %s: %w", c.ID(), err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO credentials(id, kind, scope, username, secret, properties)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET kind=EXCLUDED.kind, scope=EXCLUDED.scope,
			username=EXCLUDED.username, secret=EXCLUDED.secret, properties=EXCLUDED.properties`,
		c.ID(), kind, sc.Scope().String(), username, secret, propsJSON)
	if err != nil {
		return fmt.Errorf("store: upsert credential %s: %w", c.ID(), err)
	}
	return nil
}

// ListCredentials rehydrates every stored credential. Rows with an unknown
// kind are skipped with a warning rather than failing the whole list.
func (s *Store) ListCredentials(ctx context.Context) ([]credential.Credential, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, scope, username, secret, properties FROM credentials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list credentials: %w", err)
	}
	defer rows.Close()

	var out []credential.Credential
	for rows.Next() {
		var id, kind, scopeLabel, username, secret string
		var propsJSON []byte
		if err := rows.Scan(&id, &kind, &scopeLabel, &username, &secret, &propsJSON); err != nil {
			return nil, fmt.Errorf("store: scan credential: %w", err)
		}
		c, err := rehydrate(id, kind, scopeLabel, username, secret, propsJSON)
		if err != nil {
			s.log.Warn().Str("id", id).Str("kind", kind).Err(err).Msg("skipping unreadable credential row")
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func rehydrate(id, kind, scopeLabel, username, secret string, propsJSON []byte) (credential.Credential, error) {
	scope, err := credential.ParseScope(scopeLabel)
	if err != nil {
		return nil, err
	}
	var props map[string]any
	if len(propsJSON) > 0 {
		if err := json.Unmarshal(propsJSON, &props); err != nil {
			return nil, fmt.Errorf("bad properties: %w", err)
		}
	}
	switch kind {
	case credential.KindUsernamePassword:
		active, _ := props["active"].(bool)
		return credential.NewUsernamePassword(id, scope, username, secret, active), nil
	case credential.KindSecretToken:
		return credential.NewSecretToken(id, scope, secret), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// SaveQueries persists the rendered CQL of every describable filter. Filters
// with no textual form cannot be persisted as queries and are counted as
// skipped; that is the documented fallback, not a failure.
func (s *Store) SaveQueries(ctx context.Context, filters []engine.Filter) (saved, skipped int, err error) {
	for _, f := range filters {
		if !f.Describable() {
			s.log.Debug().Str("filter", f.ID).Msg("filter has no CQL form, not persisting")
			skipped++
			continue
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO saved_queries(filter_id, title, cql, updated_at)
			VALUES ($1,$2,$3,now())
			ON CONFLICT (filter_id) DO UPDATE SET title=EXCLUDED.title, cql=EXCLUDED.cql, updated_at=now()`,
			f.ID, f.Title, f.CQL); err != nil {
			return saved, skipped, fmt.Errorf("store: save query %s: %w", f.ID, err)
		}
		saved++
	}
	return saved, skipped, nil
}

// SavedQuery is one persisted filter rendering.
type SavedQuery struct {
	FilterID  string    `json:"filter_id"`
	Title     string    `json:"title"`
	CQL       string    `json:"cql"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Store) ListSavedQueries(ctx context.Context) ([]SavedQuery, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filter_id, title, cql, updated_at FROM saved_queries ORDER BY filter_id`)
	if err != nil {
		return nil, fmt.Errorf("store: list saved queries: %w", err)
	}
	defer rows.Close()

	var out []SavedQuery
	for rows.Next() {
		var q SavedQuery
		if err := rows.Scan(&q.FilterID, &q.Title, &q.CQL, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan saved query: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
