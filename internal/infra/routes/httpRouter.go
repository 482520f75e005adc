package routes

import (
	"encoding/json"
	"net/http"

	"emotional-analysis/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux           *mux.Router
	WSHandlers    *handlers.WSHandlers
	CallHandlers  *handlers.CallHandlers
	CyberHandlers *handlers.CyberHandlers
	AuthHandlers  *handlers.AuthHandlers
}

func NewRoutes(mux *mux.Router, wsHandlers *handlers.WSHandlers, callHandlers *handlers.CallHandlers, cyberHandlers *handlers.CyberHandlers, authHandlers *handlers.AuthHandlers) *Routes {
	return &Routes{mux, wsHandlers, callHandlers, cyberHandlers, authHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/ws", r.WSHandlers.HandleWS)

	r.Mux.HandleFunc("/api/auth/login", r.AuthHandlers.Login).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/auth/register", r.AuthHandlers.Register).Methods(http.MethodPost)

	r.Mux.HandleFunc("/api/calls", r.CallHandlers.SaveCall).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/calls/emotions", r.CallHandlers.GetEmotions).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/calls/analyze", r.CallHandlers.AnalyzeBehavior).Methods(http.MethodGet)

	r.Mux.HandleFunc("/api/cyber/search", r.CyberHandlers.Search).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/cyber/all-calls", r.CyberHandlers.AllCalls).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/cyber/statistics", r.CyberHandlers.Statistics).Methods(http.MethodGet)

	r.Mux.HandleFunc("/api/test", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "API is working"})
	}).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
