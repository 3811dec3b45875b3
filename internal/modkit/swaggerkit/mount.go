// Package swaggerkit mounts the swagger UI and its doc.json under /api/docs
package swaggerkit

import (
	"net/http"

	phttp "ytchat/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount registers the docs routes when enabled, otherwise nothing
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
