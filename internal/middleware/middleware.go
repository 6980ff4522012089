package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies mws left to right, so the last middleware becomes the
// outermost handler.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
