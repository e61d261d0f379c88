package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/logger"
	phttp "addrcheck/internal/platform/net/http"
)

// RecoverJSON turns panics into the standard 500 envelope and logs the stack.
// http.ErrAbortHandler is re-panicked
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			phttp.RespondError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
