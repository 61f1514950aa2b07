package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/bridges/{bridge}", s.handleBridge).Methods(http.MethodGet)
	v1.HandleFunc("/bridges/{bridge}/blockchains/{chain}", s.handleBlockchain).Methods(http.MethodGet)
	v1.HandleFunc("/bridges/{bridge}/blockchains/{chain}/validators", s.handleValidators).Methods(http.MethodGet)
	v1.HandleFunc("/bridges/{bridge}/locks/{source}/{tx_id}", s.handleLock).Methods(http.MethodGet)
	v1.HandleFunc("/bridges/{bridge}/locks/{source}/{tx_id}/signatures", s.handleSignatures).Methods(http.MethodGet)
	v1.HandleFunc("/users/{chain}/{address}", s.handleUser).Methods(http.MethodGet)
	v1.HandleFunc("/users/{chain}/{address}/{kind:sent|received}", s.handleHistory).Methods(http.MethodGet)

	return r
}
