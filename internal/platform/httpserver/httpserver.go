package httpserver

import (
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long in-flight requests get to finish on
// graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
