// Package module holds the port lookup helpers the API composer uses
package module

import (
	phttp "addrcheck/internal/platform/net/http"
)

// Module is the contract modkit mounts. Kept here too so port helpers avoid an import knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
