// Package middle contains middleware for use with the recurtrace server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/kallsbrook/recurtrace/server/result"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// requestIDKey is the context key an incoming request's generated ID is
// stored under.
type requestIDKey struct{}

// RequestID stamps a freshly generated UUID onto the request's context,
// where handlers can retrieve it with RequestIDFrom. The log line written
// by result.Result.Log does not include it. It does not read any
// client-supplied header; the ID is always server-generated.
func RequestID(next http.Handler) http.Handler {
	return mwFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), requestIDKey{}, uuid.New())
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// RequestIDFrom returns the ID stamped by RequestID, or the zero UUID if
// the request never passed through that middleware.
func RequestIDFrom(req *http.Request) uuid.UUID {
	id, _ := req.Context().Value(requestIDKey{}).(uuid.UUID)
	return id
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a generic
// message to the client and add it to the log.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}
