package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS embeds the static assets of the web UI
//
//go:embed all:static
var FS embed.FS

// GetHTTPFS returns the embedded static assets for HTTP serving
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return nil, err
	}

	if !hasStylesheet(sub) {
		return nil, &fs.PathError{Op: "stat", Path: "resilio.css", Err: fs.ErrNotExist}
	}

	return http.FS(sub), nil
}

// hasStylesheet checks that the asset directory was embedded
func hasStylesheet(fsys fs.FS) bool {
	if _, err := fs.Stat(fsys, "resilio.css"); err != nil {
		return false
	}
	return true
}
