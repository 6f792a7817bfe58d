// Package endpoints loads the list of API endpoints the mirror keeps in sync.
package endpoints

import (
	"errors"
	"fmt"
	"strings"

	"github.com/estecon/estecon-client/internal/configfile"
)

// Endpoint is one API path to mirror, relative to the configured base address.
type Endpoint struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (e Endpoint) EnabledValue() bool {
	if e.Enabled == nil {
		return true
	}
	return *e.Enabled
}

type configFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Registry holds validated endpoint definitions. It is read-only after LoadRegistry.
type Registry struct {
	endpoints []Endpoint
	idx       map[string]Endpoint
}

// LoadRegistry loads endpoint definitions from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	var cfg configFile
	if err := configfile.Load(path, &cfg); err != nil {
		return nil, fmt.Errorf("endpoints file: %w", err)
	}
	return NewRegistry(cfg.Endpoints)
}

// NewRegistry validates entries and builds a Registry from them.
func NewRegistry(entries []Endpoint) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	reg := &Registry{
		endpoints: make([]Endpoint, len(entries)),
		idx:       make(map[string]Endpoint, len(entries)),
	}
	for i := range entries {
		e := sanitizeEndpoint(entries[i])
		if err := validateEndpoint(e); err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if _, exists := reg.idx[e.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", e.ID)
		}
		reg.endpoints[i] = e
		reg.idx[e.ID] = e
	}
	return reg, nil
}

func sanitizeEndpoint(e Endpoint) Endpoint {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	// Path is kept byte-for-byte: the fetcher appends it verbatim.
	if e.Name == "" {
		e.Name = e.ID
	}
	if e.Enabled == nil {
		def := true
		e.Enabled = &def
	}
	return e
}

func validateEndpoint(e Endpoint) error {
	if e.ID == "" {
		return errors.New("id is required")
	}
	if strings.ContainsAny(e.ID, ": ") {
		return fmt.Errorf("id %q must not contain spaces or colons", e.ID)
	}
	if strings.TrimSpace(e.Path) == "" {
		return fmt.Errorf("path is required for endpoint %q", e.ID)
	}
	return nil
}

// ByID returns the endpoint with the given id.
func (r *Registry) ByID(id string) (Endpoint, bool) {
	if r == nil {
		return Endpoint{}, false
	}
	e, ok := r.idx[strings.TrimSpace(id)]
	return e, ok
}

// All returns a copy of every configured endpoint in file order.
func (r *Registry) All() []Endpoint {
	if r == nil {
		return nil
	}
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Enabled returns endpoints that are enabled.
func (r *Registry) Enabled() []Endpoint {
	all := r.All()
	out := make([]Endpoint, 0, len(all))
	for _, e := range all {
		if e.EnabledValue() {
			out = append(out, e)
		}
	}
	return out
}
