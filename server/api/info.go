package api

import (
	"net/http"

	"github.com/kallsbrook/recurtrace"
	"github.com/kallsbrook/recurtrace/internal/version"
	"github.com/kallsbrook/recurtrace/server/result"
)

// InfoModel reports the running server's version and the resource ceilings
// it enforces against every submitted program, so a client can size its
// programs accordingly before submitting them.
type InfoModel struct {
	Version struct {
		Server     string `json:"server"`
		Recurtrace string `json:"recurtrace"`
	} `json:"version"`
	Limits struct {
		MaxStackLen    int `json:"max_stack_len"`
		MaxFrameCount  int `json:"max_frame_count"`
		IterationLimit int `json:"iteration_limit"`
	} `json:"limits"`
}

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API
// and server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Recurtrace = version.Current
	resp.Limits.MaxStackLen = recurtrace.MaxStackLen
	resp.Limits.MaxFrameCount = recurtrace.MaxFrameCount
	resp.Limits.IterationLimit = recurtrace.IterationLimit

	return result.OK(resp, "client requested API info")
}
