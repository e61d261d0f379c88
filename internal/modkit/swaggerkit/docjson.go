package swaggerkit

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"sync"

	"addrcheck/internal/platform/config"
)

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(spec map[string]any)

var (
	mu       sync.RWMutex
	mutators = map[string]SpecMutator{}
)

// Register installs a named mutator; registering a name again replaces it
func Register(name string, m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators[name] = m
	mu.Unlock()
}

const baseDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "addrcheck API", "version": "1.0.0",
    "description": "Blockchain address verification requests"},
  "servers": [{"url": "/api/v1"}],
  "paths": {}
}`

// Build returns the document with every registered mutator applied, in name order
func Build() map[string]any {
	var spec map[string]any
	_ = json.Unmarshal([]byte(baseDoc), &spec)

	if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		info := spec["info"].(map[string]any)
		info["title"] = info["title"].(string) + " " + v
	}

	ensureErrorSchema(spec)

	mu.RLock()
	names := slices.Sorted(maps.Keys(mutators))
	for _, n := range names {
		mutators[n](spec)
	}
	mu.RUnlock()

	addDefaultError(spec)
	return spec
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Build())
	}
}

// Components returns spec.components.schemas, creating it when missing
func Components(spec map[string]any) map[string]any {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	return schemas
}

// Paths returns spec.paths, creating it when missing
func Paths(spec map[string]any) map[string]any {
	p, ok := spec["paths"].(map[string]any)
	if !ok {
		p = map[string]any{}
		spec["paths"] = p
	}
	return p
}

func ensureErrorSchema(spec map[string]any) {
	schemas := Components(spec)
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultError gives every operation a 500 response when it has none
func addDefaultError(spec map[string]any) {
	errResp := map[string]any{
		"description": "Internal Server Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
			},
		},
	}
	for _, p := range Paths(spec) {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			if _, exists := resps["500"]; !exists {
				resps["500"] = errResp
			}
		}
	}
}
