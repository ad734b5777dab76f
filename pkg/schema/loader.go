package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a schema document from disk, picking the decoder from the
// file extension. ".yaml" and ".yml" decode as YAML, everything else as JSON.
func LoadFile(path string) (*FormSchema, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return decodeByExtension(path, data)
}

// LoadFS reads a schema document from an fs.FS, typically an embed.FS.
func LoadFS(fsys fs.FS, name string) (*FormSchema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return decodeByExtension(name, data)
}

func decodeByExtension(name string, data []byte) (*FormSchema, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}
