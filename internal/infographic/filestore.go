package infographic

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists generated images to the public assets directory and
// hands back the URL path they are served under.
type FileStore struct {
	dir string
}

// NewFileStore creates the public directory if needed and returns a store
// writing into it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("public directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create public directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveBase64Image decodes base64 PNG data and writes it under a unique
// name, returning the public URL path. A data URI prefix, if present, is
// stripped before decoding.
func (fs *FileStore) SaveBase64Image(data string) (string, error) {
	if idx := strings.Index(data, ";base64,"); idx >= 0 && strings.HasPrefix(data, "data:image") {
		data = data[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	name := fmt.Sprintf("gen_%s.png", uuid.New().String())
	if err := os.WriteFile(filepath.Join(fs.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/public/" + name, nil
}

// Dir returns the directory images are written to, for serving static files.
func (fs *FileStore) Dir() string {
	return fs.dir
}
