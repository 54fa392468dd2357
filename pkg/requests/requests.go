// Package requests loads transfer descriptions from YAML or JSON files.
package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Spec is one transfer declared in a requests file.
type Spec struct {
	ID      string            `json:"id" yaml:"id"`
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Secure  bool              `json:"secure" yaml:"secure"`
	CAPath  string            `json:"ca_path" yaml:"ca_path"`
	Body    string            `json:"body" yaml:"body"`
	Form    map[string]string `json:"form" yaml:"form"`
	Headers []string          `json:"headers" yaml:"headers"`
	Output  string            `json:"output" yaml:"output"`
}

// HasBody reports whether the spec carries a raw body or form fields.
func (s Spec) HasBody() bool {
	return s.Body != "" || len(s.Form) > 0
}

// file represents the structure of a requests file.
type file struct {
	Requests []Spec `json:"requests" yaml:"requests"`
}

// Registry holds the validated specs of one requests file.
type Registry struct {
	mu    sync.RWMutex
	specs []Spec
	idx   map[string]Spec
}

// LoadRegistry loads and validates the requests file at path.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("requests file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open requests file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read requests file: %w", err)
	}

	parsed, err := parseFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Requests)
}

// NewRegistry sanitizes and validates specs. Ids must be unique.
func NewRegistry(specs []Spec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, errors.New("requests file contains no requests entries")
	}

	reg := &Registry{
		specs: make([]Spec, len(specs)),
		idx:   make(map[string]Spec, len(specs)),
	}
	for i := range specs {
		s := sanitizeSpec(specs[i])
		if err := validateSpec(s); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate request id %q", s.ID)
		}
		reg.specs[i] = s
		reg.idx[s.ID] = s
	}
	return reg, nil
}

func parseFile(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f file
		if err := d.fn(data, &f); err != nil {
			errs = append(errs, fmt.Errorf("decode %s requests: %w", d.name, err))
			continue
		}
		return f, nil
	}

	return file{}, errors.Join(append([]error{errors.New("requests file format not recognized (expected YAML or JSON)")}, errs...)...)
}

func sanitizeSpec(s Spec) Spec {
	s.ID = strings.TrimSpace(s.ID)
	s.URL = strings.TrimSpace(s.URL)
	s.CAPath = strings.TrimSpace(s.CAPath)
	s.Output = strings.TrimSpace(s.Output)
	s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
	if s.Method == "" {
		s.Method = MethodGet
		if s.HasBody() {
			s.Method = MethodPost
		}
	}

	if len(s.Headers) > 0 {
		headers := make([]string, 0, len(s.Headers))
		for _, h := range s.Headers {
			if h = strings.TrimSpace(h); h != "" {
				headers = append(headers, h)
			}
		}
		s.Headers = headers
	}
	return s
}

func validateSpec(s Spec) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required for request %q", s.ID)
	}
	if s.CAPath != "" && !s.Secure {
		return fmt.Errorf("ca_path requires secure: true for request %q", s.ID)
	}

	switch s.Method {
	case MethodGet:
		if s.HasBody() {
			return fmt.Errorf("GET request %q cannot carry a body or form", s.ID)
		}
		if len(s.Headers) > 0 {
			return fmt.Errorf("headers are only supported on plain POST (request %q)", s.ID)
		}
	case MethodPost:
		if s.Body != "" && len(s.Form) > 0 {
			return fmt.Errorf("body and form are mutually exclusive for request %q", s.ID)
		}
		if s.Secure && len(s.Headers) > 0 {
			return fmt.Errorf("headers are only supported on plain POST (request %q)", s.ID)
		}
	default:
		return fmt.Errorf("unsupported method %q for request %q", s.Method, s.ID)
	}
	return nil
}

// All returns a copy of the specs in file order.
func (r *Registry) All() []Spec {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// ByID returns the spec registered under id.
func (r *Registry) ByID(id string) (Spec, bool) {
	if r == nil {
		return Spec{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Spec{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[id]
	return s, ok
}
