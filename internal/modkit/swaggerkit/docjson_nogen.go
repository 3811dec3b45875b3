//go:build !swag

package swaggerkit

import "net/http"

// docReader stands in for the generated docs until `swag init` runs with -tags swag
var docReader = func() string {
	return `{"openapi":"3.0.3","info":{"title":"ytchat API","version":"0.0.0"},"paths":{}}`
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}
