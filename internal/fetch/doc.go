// Package fetch retrieves raw page content from external sites, either
// with a plain HTTP GET or through a headless browser for pages that
// only materialize after client-side rendering.
//
// The static Client surfaces non-200 responses as a *StatusError so the
// caller can decide whether to retry. The Renderer retries internally
// and degrades to an empty result when the page cannot be fetched;
// callers must treat empty content as "no data available".
package fetch
