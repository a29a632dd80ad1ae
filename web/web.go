// Package web embeds the single-page client. History and the daily usage
// mirror live entirely in the browser's localStorage; the server only
// contributes the authoritative meta block of each analyze response.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler serves the embedded client with index.html at the root.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed guarantees the directory exists; this is unreachable
		// outside a broken build.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
