// Package api provides HTTP API endpoints for the recurtrace execution
// server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/kallsbrook/recurtrace/server/result"
	"github.com/kallsbrook/recurtrace/server/serr"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// API holds parameters needed by endpoints to run. To use API, create one
// and then assign the result of its HTTP* methods as handlers to a router
// or some other kind of server mux.
type API struct {
	// Timeout bounds how long a single submitted program is allowed to run
	// before the endpoint gives up on it and responds with an error. The
	// interpreter itself has no internal cancellation point (spec.md's
	// guards are iteration/stack/frame-count ceilings, not wall-clock), so
	// this is enforced by racing execution against a timer.
	Timeout time.Duration
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is a problem
// decoding the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is a function that fulfills a single API request and
// produces the Result to send back.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint adapts an EndpointFunc into an http.HandlerFunc, handling panic
// recovery, response marshaling, and logging uniformly across endpoints.
func Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			errResult := result.TextErr(http.StatusInternalServerError, "An internal server error occurred", "endpoint result was never populated")
			errResult.Log(req)
			errResult.WriteResponse(w)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			// not pre-calling PrepareMarshaledResponse here; if our generalized
			// Err response causes panic to marshal, well, we need to just fix
			// that and panicTo500 will convert it into a raw text error with
			// no marshaling needed.
			newResp.Log(req)
			newResp.WriteResponse(w)
			return
		}

		r.Log(req)
		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.Log(req)
		r.WriteResponse(w)
		return true
	}
	return false
}
