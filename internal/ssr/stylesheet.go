package ssr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Stylesheet sources reported in metrics and logs.
const (
	StylesheetScan     = "scan"
	StylesheetFallback = "fallback"
	StylesheetNone     = "none"
)

// Stylesheet is the CSS inlined into a rendered document.
type Stylesheet struct {
	Text   string
	Path   string
	Source string
}

// FindStylesheet returns the first file in dir matching pattern. When none
// matches it reads fallback; when that is missing too it returns an empty
// stylesheet with Source StylesheetNone. Ties between several matches are
// resolved by directory order and should not be relied on.
func FindStylesheet(dir, pattern, fallback string) (Stylesheet, error) {
	if pattern == "" {
		pattern = "*.css"
	}
	if !doublestar.ValidatePattern(pattern) {
		return Stylesheet{Source: StylesheetNone}, fmt.Errorf("invalid stylesheet pattern %q", pattern)
	}

	if dir != "" {
		matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return Stylesheet{Source: StylesheetNone}, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, match := range matches {
			path := filepath.Join(dir, filepath.FromSlash(match))
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			return Stylesheet{Text: string(data), Path: path, Source: StylesheetScan}, nil
		}
	}

	if fallback != "" {
		data, err := os.ReadFile(fallback)
		if err == nil {
			return Stylesheet{Text: string(data), Path: fallback, Source: StylesheetFallback}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Stylesheet{Source: StylesheetNone}, fmt.Errorf("read fallback stylesheet: %w", err)
		}
	}

	return Stylesheet{Source: StylesheetNone}, nil
}
