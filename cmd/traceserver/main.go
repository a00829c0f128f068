/*
Traceserver starts a recurtrace execution server and begins listening for
new connections.

Usage:

	traceserver [flags]
	traceserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using the REST API defined in server/api. By default it listens on
localhost:8080. This can be changed with the --listen/-l flag (or the
environment variable RECURTRACE_LISTEN_ADDRESS), or by pointing --config at
a TOML file.

The flags are:

	-v, --version
		Give the current version of the recurtrace server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		RECURTRACE_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-t, --timeout SECONDS
		The number of seconds a single submitted program is allowed to run
		before the server gives up on it. Defaults to 10.

	--config FILE
		Load listen address and timeout from the given TOML file. Values
		from --listen/--timeout/the environment still take priority if also
		given.
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/kallsbrook/recurtrace/internal/version"
	"github.com/kallsbrook/recurtrace/server/api"
	"github.com/kallsbrook/recurtrace/server/middle"
)

const (
	EnvListen  = "RECURTRACE_LISTEN_ADDRESS"
	EnvTimeout = "RECURTRACE_TIMEOUT_SECONDS"
)

// fileConfig mirrors the fields loadable from a --config TOML file.
type fileConfig struct {
	Listen         string `toml:"listen"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the recurtrace server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagTimeout = pflag.IntP("timeout", "t", 0, "Seconds a single submitted program may run before it is aborted.")
	flagConfig  = pflag.String("config", "", "Load settings from the given TOML file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (recurtrace v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var cfg fileConfig
	if *flagConfig != "" {
		if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Could not read config file: %s\n", err.Error())
			os.Exit(1)
		}
	}

	listenAddr := cfg.Listen
	if envListen := os.Getenv(EnvListen); envListen != "" {
		listenAddr = envListen
	}
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	timeoutSeconds := cfg.TimeoutSeconds
	if envTimeout := os.Getenv(EnvTimeout); envTimeout != "" {
		n, err := strconv.Atoi(envTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s is not a valid integer number of seconds\n", EnvTimeout)
			os.Exit(1)
		}
		timeoutSeconds = n
	}
	if pflag.Lookup("timeout").Changed {
		timeoutSeconds = *flagTimeout
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	theAPI := api.API{Timeout: time.Duration(timeoutSeconds) * time.Second}

	router := chi.NewRouter()
	router.Use(middle.RequestID)
	router.Use(middle.DontPanic())

	router.Route(api.PathPrefix, func(r chi.Router) {
		r.Get("/info", theAPI.HTTPGetInfo())
		r.Post("/execute/", theAPI.HTTPExecute())
	})

	log.Printf("INFO  Starting recurtrace server %s on %s...", version.ServerCurrent, listenAddr)
	if err := http.ListenAndServe(listenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
