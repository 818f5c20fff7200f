// Package server exposes the matching engine and credential store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/credmatch/credmatch/internal/filters"
	"github.com/credmatch/credmatch/internal/store"
	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/engine"
)

type AppServer struct {
	store *store.Store
	log   zerolog.Logger

	// filtersPath is the definitions dir reloads read from; empty disables
	// the reload endpoint.
	filtersPath string

	mu     sync.RWMutex // protects engine swap
	engine *engine.Engine
}

func NewAppServer(st *store.Store, eng *engine.Engine, log zerolog.Logger) *AppServer {
	return &AppServer{store: st, engine: eng, log: log}
}

// SetFiltersPath enables POST /api/v1/filters to reload definitions from dir.
func (s *AppServer) SetFiltersPath(dir string) { s.filtersPath = dir }

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/credentials", s.handleCredentials)
	mux.HandleFunc("/api/v1/match", s.handleMatch)
	mux.HandleFunc("/api/v1/filters", s.handleFilters)
	mux.HandleFunc("/api/v1/queries", s.handleQueries)
}

// Router returns a mux with all routes registered.
func (s *AppServer) Router() *http.ServeMux {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func (s *AppServer) currentEngine() *engine.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *AppServer) swapEngine(e *engine.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = e
}

// LoadFiltersFromDir loads every filter definition under dir, compiles a new
// engine and swaps it in, then persists the rendered CQL of describable
// filters. Files that fail to load are counted and logged, not fatal.
func (s *AppServer) LoadFiltersFromDir(ctx context.Context, dir string) (loaded, failed int, err error) {
	fs, loadErr := filters.LoadDirRecursive(dir)
	if loadErr != nil {
		var merr *multierror.Error
		if errors.As(loadErr, &merr) {
			failed = len(merr.Errors)
			s.log.Warn().Int("failed", failed).Err(loadErr).Msg("some filter definitions did not load")
		} else {
			return 0, 0, loadErr
		}
	}

	eng := engine.Compile(fs, engine.WithLogger(&s.log))
	s.swapEngine(eng)
	loaded = len(fs)

	if s.store != nil {
		saved, skipped, err := s.store.SaveQueries(ctx, fs)
		if err != nil {
			return loaded, failed, fmt.Errorf("persist queries: %w", err)
		}
		s.log.Info().Int("loaded", loaded).Int("failed", failed).
			Int("queries_saved", saved).Int("queries_skipped", skipped).
			Msg("filters loaded")
	}
	return loaded, failed, nil
}

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentEngine().Stats())
}

func (s *AppServer) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p credentialPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	c, err := p.toCredential()
	if err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	ids := s.currentEngine().Evaluate(c)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": c.ID(), "matches": ids})
}

func (s *AppServer) handleCredentials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		creds, err := s.store.ListCredentials(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]credentialPayload, 0, len(creds))
		for _, c := range creds {
			out = append(out, payloadFrom(c))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p credentialPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		c, err := p.toCredential()
		if err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.store.UpsertCredential(r.Context(), c); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID()})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *AppServer) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if s.filtersPath == "" {
			http.Error(w, "no filters path configured", http.StatusConflict)
			return
		}
		loaded, failed, err := s.LoadFiltersFromDir(r.Context(), s.filtersPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"loaded": loaded, "failed": failed})
		return
	}

	type filterInfo struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		CQL         string `json:"cql,omitempty"`
		Describable bool   `json:"describable"`
	}
	fs := s.currentEngine().Filters()
	out := make([]filterInfo, 0, len(fs))
	for _, f := range fs {
		out = append(out, filterInfo{ID: f.ID, Title: f.Title, CQL: f.CQL, Describable: f.Describable()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *AppServer) handleQueries(w http.ResponseWriter, r *http.Request) {
	qs, err := s.store.ListSavedQueries(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if qs == nil {
		qs = []store.SavedQuery{}
	}
	writeJSON(w, http.StatusOK, qs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// credentialPayload is the wire form of a credential. Secrets are accepted on
// input and never echoed back.
type credentialPayload struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Scope    string `json:"scope"`
	Username string `json:"username,omitempty"`
	Secret   string `json:"secret,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

func (p credentialPayload) toCredential() (credential.Credential, error) {
	if p.ID == "" {
		return nil, errors.New("missing id")
	}
	scope, err := credential.ParseScope(p.Scope)
	if err != nil {
		return nil, err
	}
	switch p.Kind {
	case credential.KindUsernamePassword:
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		return credential.NewUsernamePassword(p.ID, scope, p.Username, p.Secret, active), nil
	case credential.KindSecretToken:
		return credential.NewSecretToken(p.ID, scope, p.Secret), nil
	default:
		return nil, fmt.Errorf("unknown credential kind %q", p.Kind)
	}
}

func payloadFrom(c credential.Credential) credentialPayload {
	p := credentialPayload{ID: c.ID()}
	if sc, ok := c.(credential.ScopedCredential); ok {
		p.Scope = sc.Scope().String()
	}
	switch t := c.(type) {
	case *credential.UsernamePassword:
		p.Kind = credential.KindUsernamePassword
		p.Username = t.Username()
		active := t.Active()
		p.Active = &active
	case *credential.SecretToken:
		p.Kind = credential.KindSecretToken
	}
	return p
}
