//go:build swag

package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	docs "ytchat/internal/services/api/docs"
)

// docReader is a seam for tests
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// errorExamples are injected into every operation that does not declare the status itself
var errorExamples = map[string]map[string]any{
	"400": {"status_code": 400, "status": "Bad Request", "code": 8, "error": "question is a required field", "field": "question"},
	"500": {"status_code": 500, "status": "Internal Server Error", "code": 0, "error": "Internal server error"},
	"504": {"status_code": 504, "status": "Gateway Timeout", "code": 13, "error": "captions timed out"},
}

// serveDocJSON serves the generated spec as OAS 3.0 with the shared error envelope
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		normalizeVersion(spec)
		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": "/api/v1"}}
		}
		addErrorResponses(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalizeVersion lifts swagger 2 and lowers 3.1 to 3.0.3, the ui renders neither
func normalizeVersion(spec map[string]any) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
}

func addErrorResponses(spec map[string]any) {
	comps := child(spec, "components")
	schemas := child(comps, "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		str := map[string]any{"type": "string"}
		num := map[string]any{"type": "integer", "format": "int32"}
		schemas["ErrorResponse"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status_code": num, "status": str, "code": num,
				"error": str, "field": str, "request_id": str,
			},
			"required": []any{"status_code", "status"},
		}
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		ops, _ := p.(map[string]any)
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			resps := child(op, "responses")
			for status, example := range errorExamples {
				if _, ok := resps[status]; ok {
					continue
				}
				resps[status] = map[string]any{
					"description": http.StatusText(int(example["status_code"].(int))),
					"content": map[string]any{"application/json": map[string]any{
						"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
						"example": example,
					}},
				}
			}
		}
	}
}

// child returns m[key] as a map, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
