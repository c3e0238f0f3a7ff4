// Package web holds the browser client served by the HTTP server.
package web

import "embed"

// Assets contains index.html and everything under static/.
//
//go:embed index.html static
var Assets embed.FS
