// Package http contains the gin handlers of the page server: the page
// pipelines (SSR and manifest) mounted as the router fallback, the public
// asset index, the hello API and the health endpoint.
package http
