package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a Scene from a YAML or JSON file, chosen by extension, and
// validates it.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}

	var sc Scene
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode scene: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("decode scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("scene %s: unsupported format %q", path, ext)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &sc, nil
}

// Save writes a Scene to a YAML or JSON file, chosen by extension.
func Save(path string, sc *Scene) error {
	var buf bytes.Buffer
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := WriteYAML(&buf, sc); err != nil {
			return err
		}
	case ".json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sc); err != nil {
			return fmt.Errorf("encode scene: %w", err)
		}
	default:
		return fmt.Errorf("scene %s: unsupported format %q", path, ext)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	return nil
}

// WriteYAML encodes sc as YAML.
func WriteYAML(w io.Writer, sc *Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
