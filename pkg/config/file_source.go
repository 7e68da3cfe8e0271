package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource reads settings from a satellite.yml file validated against
// the embedded settings schema. A missing file is a valid empty layer;
// a file that fails to parse or validate is a construction error.
type FileSource struct {
	path   string
	values map[string]interface{}
}

// NewFileSource loads the file layer from the given path.
func NewFileSource(path string) (*FileSource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileSource{path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	values := make(map[string]interface{})
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	registry := NewSchemaRegistry()
	if err := registry.ValidateAgainstSchema("settings", values); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return &FileSource{path: path, values: values}, nil
}

// Path returns the file path this layer was loaded from.
func (s *FileSource) Path() string {
	return s.path
}

// Lookup returns the value for key coerced to a string. List values are
// joined with commas so the resolver's tokenizer sees the same tokens
// either way.
func (s *FileSource) Lookup(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyUndefined
	}
	return coerceString(v)
}

// LookupList returns the value for key as a list. A scalar value becomes
// a single-element list, which keeps commands with spaces intact.
func (s *FileSource) LookupList(key string) ([]string, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyUndefined
	}

	if items, ok := v.([]interface{}); ok {
		list := make([]string, 0, len(items))
		for _, item := range items {
			str, err := coerceString(item)
			if err != nil {
				return nil, err
			}
			if str != "" {
				list = append(list, str)
			}
		}
		return list, nil
	}

	str, err := coerceString(v)
	if err != nil {
		return nil, err
	}
	if str == "" {
		return []string{}, nil
	}
	return []string{str}, nil
}

// coerceString renders a YAML scalar as the string the resolver works
// with, so a numeric port in the file resolves like its quoted form.
func coerceString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), nil
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			str, err := coerceString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, str)
		}
		return strings.Join(parts, ","), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
