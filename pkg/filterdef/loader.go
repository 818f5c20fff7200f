// Package filterdef loads filter definitions from YAML and compiles them
// into matcher trees.
//
// A definition names a filter and gives one match node. Each node is a
// single-key mapping; composites nest recursively:
//
//	id: ops-admins
//	title: Ops admin credentials
//	match:
//	  allOf:
//	    - username: alice
//	    - property: {name: active, equals: true}
//	    - scope: [GLOBAL, SYSTEM]
package filterdef

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/credmatch/credmatch/pkg/cql"
	"github.com/credmatch/credmatch/pkg/credential"
	"github.com/credmatch/credmatch/pkg/engine"
	"github.com/credmatch/credmatch/pkg/matcher"
)

type rawFilter struct {
	ID    string         `yaml:"id"`
	Title string         `yaml:"title"`
	Match map[string]any `yaml:"match"`
}

// LoadFilterYAML parses one filter definition.
func LoadFilterYAML(b []byte) (engine.Filter, error) {
	var rf rawFilter
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return engine.Filter{}, fmt.Errorf("filterdef: %w", err)
	}
	if rf.ID == "" {
		return engine.Filter{}, errors.New("filterdef: missing id")
	}
	if rf.Match == nil {
		return engine.Filter{}, fmt.Errorf("filterdef: filter %s has no match node", rf.ID)
	}
	m, err := parseNode(rf.Match)
	if err != nil {
		return engine.Filter{}, fmt.Errorf("filterdef: filter %s: %w", rf.ID, err)
	}
	return engine.NewFilter(rf.ID, rf.Title, m), nil
}

func parseNode(node map[string]any) (matcher.Matcher, error) {
	if len(node) != 1 {
		return nil, fmt.Errorf("match node must have exactly one key, got %d", len(node))
	}
	var key string
	var val any
	for k, v := range node {
		key, val = k, v
	}

	switch key {
	case "username":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("username: want string, got %T", val)
		}
		return matcher.WithUsername(s), nil

	case "id":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("id: want string, got %T", val)
		}
		return matcher.WithID(s), nil

	case "scope":
		scopes, err := parseScopes(val)
		if err != nil {
			return nil, err
		}
		return matcher.NewScopes(scopes), nil

	case "property":
		mp, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("property: want mapping, got %T", val)
		}
		return parseProperty(mp)

	case "allOf":
		subs, err := parseList(val, key)
		if err != nil {
			return nil, err
		}
		return matcher.NewAllOf(subs), nil

	case "anyOf":
		subs, err := parseList(val, key)
		if err != nil {
			return nil, err
		}
		return matcher.NewAnyOf(subs), nil

	case "not":
		mp, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("not: want mapping, got %T", val)
		}
		sub, err := parseNode(mp)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return matcher.NewNot(sub), nil

	case "constant":
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("constant: want bool, got %T", val)
		}
		return matcher.NewConstant(b), nil

	default:
		return nil, fmt.Errorf("unknown match node %q", key)
	}
}

func parseList(val any, key string) ([]matcher.Matcher, error) {
	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want list, got %T", key, val)
	}
	subs := make([]matcher.Matcher, 0, len(items))
	for i, item := range items {
		mp, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: want mapping, got %T", key, i, item)
		}
		sub, err := parseNode(mp)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func parseScopes(val any) ([]credential.Scope, error) {
	var labels []string
	switch t := val.(type) {
	case string:
		labels = []string{t}
	case []any:
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("scope[%d]: want string label, got %T", i, item)
			}
			labels = append(labels, s)
		}
	default:
		return nil, fmt.Errorf("scope: want label or list of labels, got %T", val)
	}
	scopes := make([]credential.Scope, 0, len(labels))
	for _, l := range labels {
		s, err := credential.ParseScope(l)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

// parseProperty accepts exactly one expectation key: equals (string, number,
// bool or null), char (one-character string) or scope (a scope label).
func parseProperty(mp map[string]any) (matcher.Matcher, error) {
	name, ok := mp["name"].(string)
	if !ok || name == "" {
		return nil, errors.New("property: missing name")
	}

	var expected any
	seen := 0
	if v, present := mp["equals"]; present {
		seen++
		expected = v
	}
	if v, present := mp["char"]; present {
		seen++
		s, ok := v.(string)
		if !ok || len([]rune(s)) != 1 {
			return nil, fmt.Errorf("property %s: char wants a one-character string, got %v", name, v)
		}
		expected = cql.Char([]rune(s)[0])
	}
	if v, present := mp["scope"]; present {
		seen++
		label, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("property %s: scope wants a label, got %T", name, v)
		}
		s, err := credential.ParseScope(label)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		expected = s
	}
	if seen != 1 {
		return nil, fmt.Errorf("property %s: want exactly one of equals/char/scope, got %d", name, seen)
	}
	return matcher.WithProperty(name, expected), nil
}
