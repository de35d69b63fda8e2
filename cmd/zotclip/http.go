package main

import (
	"encoding/json"
	"net"
	"net/http"
)

// serveHTTP runs an HTTP/1.1 server on ln exposing the daemon state, for
// curl --unix-socket and local health checks.
func serveHTTP(ln net.Listener, d *daemon) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(d.status())
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Handler: mux}
	_ = srv.Serve(ln)
}
