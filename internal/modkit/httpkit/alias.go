// Package httpkit re-exports the platform http helpers modules use,
// so module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "addrcheck/internal/platform/net/http"
)

type (
	// Envelope is the response body type
	Envelope = phttp.Envelope

	// Response is the return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Accepted returns a 202 response
func Accepted(data any) Response { return phttp.Accepted(data) }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Param reads a path parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
