// Package configfile decodes the YAML/JSON registry files next to the .env config.
package configfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads path into out. ${VAR} references are expanded from the
// environment first; $$ yields a literal $. Files ending in .json are decoded as JSON, everything
// else as YAML. Unknown keys are rejected in both formats.
func Load(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Decode(os.Expand(string(raw), expandVar), filepath.Ext(path), out)
}

func expandVar(name string) string {
	if name == "$" {
		return "$"
	}
	return os.Getenv(name)
}

// Decode parses data according to ext (".json", ".yaml", ".yml" or "").
func Decode(data, ext string, out any) error {
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(strings.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewBufferString(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}
	return nil
}
