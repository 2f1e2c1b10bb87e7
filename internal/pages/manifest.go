package pages

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// DefaultScript is used when a manifest entry has no file.
const DefaultScript = "/assets/main.js"

// Chunk is one entry of a Vite build manifest.
type Chunk struct {
	File    string   `json:"file"`
	Src     string   `json:"src,omitempty"`
	IsEntry bool     `json:"isEntry,omitempty"`
	CSS     []string `json:"css,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

// Manifest maps source entry names to built chunks.
type Manifest map[string]Chunk

// Assets are the URLs a page needs for one entry.
type Assets struct {
	Script     string
	Stylesheet string // empty when the entry has no CSS
}

// MissingEntryError reports an entry absent from the manifest.
type MissingEntryError struct {
	Entry string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("Manifest missing '%s' entry. Check vite.config.js input path.", e.Entry)
}

// LoadManifest reads a Vite manifest.json.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest not found at %s (did you run the client build?): %w", path, err)
	}

	var manifest Manifest
	if err := sonic.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return manifest, nil
}

// Entry resolves the asset URLs for name.
func (m Manifest) Entry(name string) (Assets, error) {
	chunk, ok := m[name]
	if !ok {
		return Assets{}, &MissingEntryError{Entry: name}
	}

	assets := Assets{Script: DefaultScript}
	if chunk.File != "" {
		assets.Script = "/" + chunk.File
	}
	if len(chunk.CSS) > 0 && chunk.CSS[0] != "" {
		assets.Stylesheet = "/" + chunk.CSS[0]
	}
	return assets, nil
}
