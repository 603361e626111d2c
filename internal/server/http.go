package server

import (
	"fmt"
	"log"
	"net/http"
)

// Server is the HTTP server for the decode dashboard.
type Server struct {
	mux     *http.ServeMux
	handler *Handlers
	addr    string
}

// NewServer creates a new HTTP server.
func NewServer(addr string, handler *Handlers) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		handler: handler,
		addr:    addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/status", s.handler.HandleStatus)
	s.mux.HandleFunc("/api/devices", s.handler.HandleDevices)
	s.mux.HandleFunc("/ws", s.handler.HandleWebSocket)
	s.mux.HandleFunc("/", s.handler.HandleIndex)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("starting dashboard server on %s", s.addr)
	fmt.Printf("\n  ft8dec dashboard running at http://%s\n\n", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
