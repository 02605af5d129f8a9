package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// Topology Serialization API
// =============================================================================

// Parse decodes a JSON document and normalizes it. It fails only when data
// is not valid JSON.
func Parse(data []byte) (*Topology, error) {
	tree, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Normalize(tree), nil
}

// ParseYAML decodes a YAML document and normalizes it.
func ParseYAML(data []byte) (*Topology, error) {
	tree, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return Normalize(tree), nil
}

// DecodeFile decodes the document at path into a generic tree, choosing the
// YAML decoder for .yaml and .yml files.
func DecodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if IsYAMLPath(path) {
		return DecodeYAML(data)
	}
	return Decode(data)
}

// ReadFile reads and normalizes the document at path.
func ReadFile(path string) (*Topology, error) {
	tree, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(tree), nil
}

// Marshal encodes t as indented JSON, keeping runtime fields.
func Marshal(t *Topology) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes t as indented JSON to w.
func Write(t *Topology, w io.Writer) error {
	return writeTo(t, w)
}

// WriteFile exports t to path. The file is created with 0644 permissions.
func WriteFile(t *Topology, path string) error {
	data, err := MarshalExport(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// IsYAMLPath reports whether path names a YAML document.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(t *Topology, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
