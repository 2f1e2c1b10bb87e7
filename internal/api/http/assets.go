package http

import (
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// PublicFile is one file served from the public directory.
type PublicFile struct {
	Path        string
	ContentType string
}

// PublicAssets serves the files of a public directory at their relative
// URL paths, e.g. public/logo.svg at /logo.svg.
type PublicAssets struct {
	files map[string]PublicFile
}

// LoadPublicAssets indexes dir. A missing directory yields an empty index.
func LoadPublicAssets(dir string) (*PublicAssets, error) {
	assets := &PublicAssets{files: make(map[string]PublicFile)}
	if dir == "" {
		return assets, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return assets, nil
	}

	var mu sync.Mutex
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}

		file := PublicFile{Path: p, ContentType: contentType(p)}
		mu.Lock()
		assets.files["/"+filepath.ToSlash(rel)] = file
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index public dir %s: %w", dir, err)
	}
	return assets, nil
}

// Len returns the number of indexed files.
func (a *PublicAssets) Len() int {
	return len(a.files)
}

// Lookup returns the file served at urlPath.
func (a *PublicAssets) Lookup(urlPath string) (PublicFile, bool) {
	file, ok := a.files[path.Clean("/"+urlPath)]
	return file, ok
}

// Serve answers GET and HEAD requests for indexed files and passes
// everything else to the next handler.
func (a *PublicAssets) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Next()
		return
	}
	file, ok := a.Lookup(c.Request.URL.Path)
	if !ok {
		c.Next()
		return
	}

	c.Header("Content-Type", file.ContentType)
	c.File(file.Path)
	c.Abort()
}

func contentType(p string) string {
	if ctype := mime.TypeByExtension(filepath.Ext(p)); ctype != "" {
		return ctype
	}
	mtype, err := mimetype.DetectFile(p)
	if err != nil {
		return "application/octet-stream"
	}
	return mtype.String()
}
