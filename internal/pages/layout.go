// Package pages serves client-rendered pages whose assets come from a Vite
// build manifest.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/bytedance/sonic"
)

//go:embed templates/layout.html
var templateFS embed.FS

var layout = template.Must(template.ParseFS(templateFS, "templates/layout.html"))

// Config locates the manifest and title map.
type Config struct {
	ManifestPath       string
	Entry              string
	TitlesPath         string
	DefaultTitle       string
	InitialDataMessage string
}

// DefaultConfig returns the paths produced by the client build.
func DefaultConfig() Config {
	return Config{
		ManifestPath:       "dist/.vite/manifest.json",
		Entry:              "src/main.jsx",
		TitlesPath:         "client/src/route_titles.json",
		DefaultTitle:       "React Manifest",
		InitialDataMessage: "Hello from Go server!",
	}
}

// InitialData is handed to the client as window.__INITIAL_DATA__.
type InitialData struct {
	Msg       string `json:"msg"`
	Timestamp int64  `json:"timestamp"`
}

type layoutData struct {
	Title       string
	Description string
	Script      string
	Stylesheet  string
	InitialData template.JS
}

// Renderer builds the layout document for a route.
type Renderer struct {
	config   Config
	manifest Manifest
	titles   Titles
	layout   *template.Template
	now      func() time.Time
}

// New loads the manifest and route titles.
func New(cfg Config) (*Renderer, error) {
	manifest, err := LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	titles, err := LoadTitles(cfg.TitlesPath)
	if err != nil {
		return nil, err
	}
	return NewRenderer(cfg, manifest, titles), nil
}

// NewRenderer creates a renderer from already loaded data.
func NewRenderer(cfg Config, manifest Manifest, titles Titles) *Renderer {
	if titles == nil {
		titles = Titles{}
	}
	return &Renderer{
		config:   cfg,
		manifest: manifest,
		titles:   titles,
		layout:   layout,
		now:      time.Now,
	}
}

// Render returns the document for route. A missing manifest entry is
// reported as *MissingEntryError.
func (r *Renderer) Render(route string) ([]byte, error) {
	assets, err := r.manifest.Entry(r.config.Entry)
	if err != nil {
		return nil, err
	}

	// ConfigStd escapes <, > and & so the JSON cannot close the script element.
	initial, err := sonic.ConfigStd.Marshal(InitialData{
		Msg:       r.config.InitialDataMessage,
		Timestamp: r.now().Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode initial data: %w", err)
	}

	var buf bytes.Buffer
	err = r.layout.Execute(&buf, layoutData{
		Title:       r.titles.Lookup(route, r.config.DefaultTitle),
		Description: Description(route),
		Script:      assets.Script,
		Stylesheet:  assets.Stylesheet,
		InitialData: template.JS(initial),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
