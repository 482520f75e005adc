package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"emotional-analysis/internal/domain/entities"
	Iservices "emotional-analysis/internal/domain/interfaces/services"
	"emotional-analysis/internal/infra/logger"
)

// CallHandlers expose the plain call endpoints: manual inserts and the
// emotion listings.
type CallHandlers struct {
	Logger      *logger.Logger
	CallService Iservices.ICallService
}

func NewCallHandlers(logger *logger.Logger, callService Iservices.ICallService) *CallHandlers {
	return &CallHandlers{Logger: logger, CallService: callService}
}

// SaveCall handles POST /api/calls — a manual record insert, used by
// operators to log calls that bypassed the realtime pipeline.
func (th *CallHandlers) SaveCall(w http.ResponseWriter, r *http.Request) {
	var call entities.Call
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failure", "message": "Invalid request body"})
		return
	}
	defer r.Body.Close()

	call.Emotion = entities.NormalizeEmotion(call.Emotion)
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now()
	}

	saved, err := th.CallService.Save(r.Context(), call)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("manual call save failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "failure", "message": "Server error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": saved})
}

// GetEmotions handles GET /api/calls/emotions.
func (th *CallHandlers) GetEmotions(w http.ResponseWriter, r *http.Request) {
	calls, err := th.CallService.MostRecent(r.Context(), allCallsLimit)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("emotion listing failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "failure", "message": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": calls})
}

// AnalyzeBehavior handles GET /api/calls/analyze — count of calls per label.
func (th *CallHandlers) AnalyzeBehavior(w http.ResponseWriter, r *http.Request) {
	counts, err := th.CallService.EmotionCounts(r.Context())
	if err != nil {
		th.Logger.Error(fmt.Sprintf("behavior analysis failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "failure", "message": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": counts})
}
