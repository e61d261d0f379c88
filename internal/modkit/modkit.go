// Package modkit wires service modules onto the HTTP router
package modkit

import (
	phttp "addrcheck/internal/platform/net/http"
)

// Module is what the API composer mounts. Keep it small so modules stay decoupled
type Module interface {
	// MountRoutes mounts the module under r
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any
	Name() string
}
