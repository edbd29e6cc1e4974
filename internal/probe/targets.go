package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Target declares one envelope endpoint the probe calls.
type Target struct {
	ID     string            `json:"id" yaml:"id"`
	Name   string            `json:"name" yaml:"name"`
	Method string            `json:"method" yaml:"method"`
	Path   string            `json:"path" yaml:"path"`
	Query  map[string]string `json:"query" yaml:"query"`
	Body   map[string]any    `json:"body" yaml:"body"`

	// ExpectData fails the check when a successful envelope carries no payload.
	ExpectData bool `json:"expect_data" yaml:"expect_data"`
}

type registryFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry materializes probe targets loaded from config files.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadTargets loads the probe target registry from a YAML/JSON file.
func LoadTargets(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	fileReg, err := parseTargetRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(fileReg.Targets)),
		idx:     make(map[string]Target, len(fileReg.Targets)),
	}

	for i := range fileReg.Targets {
		t := sanitizeTarget(fileReg.Targets[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}

	return reg, nil
}

// parseTargetRegistry attempts to decode the targets file content.
func parseTargetRegistry(data []byte, ext string) (registryFile, error) {
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

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalTargetRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

// unmarshalTargetRegistry decodes the targets file using the provided function.
func unmarshalTargetRegistry(name string, data []byte, fn func([]byte, any) error) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s targets: %w", name, err)
	}
	return reg, nil
}

// sanitizeTarget trims and normalizes the target config fields.
func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Method = strings.ToUpper(strings.TrimSpace(t.Method))
	t.Path = strings.TrimSpace(t.Path)

	if t.Method == "" {
		t.Method = http.MethodGet
	}
	if t.Name == "" {
		t.Name = t.ID
	}

	return t
}

// validateTarget checks that required fields are present.
func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Path == "" {
		return fmt.Errorf("path is required for target %q", t.ID)
	}
	switch t.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q for target %q", t.Method, t.ID)
	}
	return nil
}

// ByID returns the target entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns all configured targets.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}
