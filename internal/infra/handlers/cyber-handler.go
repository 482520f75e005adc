package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	Iservices "emotional-analysis/internal/domain/interfaces/services"
	"emotional-analysis/internal/infra/logger"
)

// allCallsLimit caps the unfiltered listing to keep responses bounded.
const allCallsLimit = 1000

// CyberHandlers serve the investigation dashboard: equality search, the
// recency-limited listing, and the statistics widgets. All of them are
// read-only views over the call record store.
type CyberHandlers struct {
	Logger      *logger.Logger
	CallService Iservices.ICallService
}

func NewCyberHandlers(logger *logger.Logger, callService Iservices.ICallService) *CyberHandlers {
	return &CyberHandlers{Logger: logger, CallService: callService}
}

// Search handles GET /api/cyber/search?type=uid|phone&query=...
func (th *CyberHandlers) Search(w http.ResponseWriter, r *http.Request) {
	searchType := r.URL.Query().Get("type")
	query := r.URL.Query().Get("query")

	if searchType == "" || query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required parameters"})
		return
	}

	calls, err := th.CallService.Search(r.Context(), searchType, query)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("search failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if len(calls) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No records found"})
		return
	}

	writeJSON(w, http.StatusOK, calls)
}

// AllCalls handles GET /api/cyber/all-calls.
func (th *CyberHandlers) AllCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := th.CallService.MostRecent(r.Context(), allCallsLimit)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("all-calls listing failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if len(calls) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No calls found in the database"})
		return
	}

	writeJSON(w, http.StatusOK, calls)
}

// Statistics handles GET /api/cyber/statistics.
func (th *CyberHandlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := th.CallService.Statistics(r.Context())
	if err != nil {
		th.Logger.Error(fmt.Sprintf("statistics failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
