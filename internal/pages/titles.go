package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Titles maps request paths to document titles.
type Titles map[string]string

// LoadTitles reads a route title map. The format follows the file extension:
// .yaml/.yml, .toml, anything else is parsed as JSON.
func LoadTitles(path string) (Titles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("route titles not found at %s: %w", path, err)
	}

	titles := make(Titles)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &titles)
	case ".toml":
		err = toml.Unmarshal(data, &titles)
	default:
		err = sonic.Unmarshal(data, &titles)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid route titles %s: %w", path, err)
	}
	return titles, nil
}

// Lookup returns the title for route, or fallback.
func (t Titles) Lookup(route, fallback string) string {
	if title, ok := t[normalizeRoute(route)]; ok {
		return title
	}
	return fallback
}

// Description returns the meta description for route.
func Description(route string) string {
	switch normalizeRoute(route) {
	case "/":
		return "Welcome to the home page"
	case "/about":
		return "Learn more about this project"
	default:
		return "A Vite + React + Go app"
	}
}

func normalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}
