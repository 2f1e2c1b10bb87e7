package pages

import (
	"bytes"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `{
  "src/main.jsx": {
    "file": "assets/main-4f2a.js",
    "src": "src/main.jsx",
    "isEntry": true,
    "css": ["assets/main-9c1d.css"]
  },
  "src/bare.jsx": {
    "src": "src/bare.jsx"
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestManifestEntry(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".vite/manifest.json", testManifest)
	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	tests := []struct {
		name  string
		entry string
		want  Assets
	}{
		{"full entry", "src/main.jsx", Assets{Script: "/assets/main-4f2a.js", Stylesheet: "/assets/main-9c1d.css"}},
		{"no file or css", "src/bare.jsx", Assets{Script: DefaultScript}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manifest.Entry(tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = manifest.Entry("src/other.jsx")
	var missing *MissingEntryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Manifest missing 'src/other.jsx' entry. Check vite.config.js input path.", err.Error())
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadManifest(writeFile(t, dir, "bad.json", "{not json"))
	assert.Error(t, err)
}

func TestLoadTitlesFormats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file    string
		content string
	}{
		{"titles.json", `{"/": "Home", "/about": "About Us"}`},
		{"titles.yaml", "/: Home\n/about: About Us\n"},
		{"titles.yml", "\"/\": Home\n\"/about\": About Us\n"},
		{"titles.toml", "\"/\" = \"Home\"\n\"/about\" = \"About Us\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			titles, err := LoadTitles(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, Titles{"/": "Home", "/about": "About Us"}, titles)
		})
	}

	_, err := LoadTitles(writeFile(t, dir, "broken.toml", "= nope"))
	assert.Error(t, err)
	_, err = LoadTitles(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestTitleLookupAndDescription(t *testing.T) {
	titles := Titles{"/": "Home", "/about": "About"}

	assert.Equal(t, "Home", titles.Lookup("", "Default"))
	assert.Equal(t, "Home", titles.Lookup("/", "Default"))
	assert.Equal(t, "About", titles.Lookup("about", "Default"))
	assert.Equal(t, "Default", titles.Lookup("/contact", "Default"))

	assert.Equal(t, "Welcome to the home page", Description(""))
	assert.Equal(t, "Learn more about this project", Description("/about"))
	assert.Equal(t, "A Vite + React + Go app", Description("/blog/1"))
}

func newTestRenderer(t *testing.T, msg string) *Renderer {
	t.Helper()
	var manifest Manifest
	require.NoError(t, sonic.UnmarshalString(testManifest, &manifest))

	cfg := DefaultConfig()
	cfg.InitialDataMessage = msg
	r := NewRenderer(cfg, manifest, Titles{"/about": "About Us"})
	r.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return r
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, "Hello from Go server!")

	body, err := r.Render("/about")
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "About Us", page.Find("title").Text())
	desc, _ := page.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Learn more about this project", desc)
	href, _ := page.Find(`link[rel="stylesheet"]`).Attr("href")
	assert.Equal(t, "/assets/main-9c1d.css", href)
	src, _ := page.Find(`script[type="module"]`).Attr("src")
	assert.Equal(t, "/assets/main-4f2a.js", src)
	assert.Equal(t, 1, page.Find("#root").Length())
	assert.Contains(t, string(body), `window.__INITIAL_DATA__ = {"msg":"Hello from Go server!","timestamp":1700000000};`)
}

func TestRenderReturnsLayoutError(t *testing.T) {
	r := newTestRenderer(t, "hi")
	r.layout = template.Must(template.New("broken").Parse(`{{.Unknown}}`))

	body, err := r.Render("/")
	require.Error(t, err)
	assert.Nil(t, body)
	assert.True(t, strings.HasPrefix(err.Error(), "template: broken"), err.Error())
}

func TestRenderDefaultTitle(t *testing.T) {
	r := newTestRenderer(t, "hi")

	body, err := r.Render("/missing")
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>React Manifest</title>")
}

func TestRenderEscapesInitialData(t *testing.T) {
	r := newTestRenderer(t, "</script><script>alert(1)</script>")

	body, err := r.Render("/")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(body), "</script>"))
	assert.Contains(t, string(body), `\u003c/script\u003e`)
}

func TestRenderMissingEntry(t *testing.T) {
	r := newTestRenderer(t, "hi")
	r.config.Entry = "src/absent.jsx"

	_, err := r.Render("/")
	var missing *MissingEntryError
	assert.True(t, errors.As(err, &missing))
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ManifestPath = writeFile(t, dir, "manifest.json", testManifest)
	cfg.TitlesPath = writeFile(t, dir, "titles.json", `{"/": "Home"}`)

	r, err := New(cfg)
	require.NoError(t, err)
	body, err := r.Render("")
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>Home</title>")

	cfg.TitlesPath = filepath.Join(dir, "none.json")
	_, err = New(cfg)
	assert.Error(t, err)
}
