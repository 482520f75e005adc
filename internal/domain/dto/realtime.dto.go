package dto

import "emotional-analysis/internal/domain/entities"

// Message types exchanged over the websocket.
const (
	TypeAudioData       = "audio_data"
	TypeNewCall         = "new_call"
	TypeEmotionAnalysis = "emotion_analysis"
	TypeError           = "error"
)

// InboundMessage is the envelope every client frame is decoded into. Only
// audio_data frames are accepted today; the type field keeps the protocol open.
type InboundMessage struct {
	Type        string   `json:"type"`
	Audio       string   `json:"audio"`
	CallerID    int64    `json:"caller_id"`
	PhoneNumber string   `json:"phone_number"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Duration    float64  `json:"duration"`
}

// AudioRequest carries one decoded audio submission through the pipeline.
type AudioRequest struct {
	Payload     []byte
	CallerID    int64
	PhoneNumber string
	Latitude    *float64
	Longitude   *float64
	Duration    float64
}

// NewCallMessage is broadcast to every live session after a record persists.
type NewCallMessage struct {
	Type string        `json:"type"`
	Call entities.Call `json:"call"`
}

// EmotionAnalysisMessage carries the full prediction distribution back to the
// session that submitted the audio.
type EmotionAnalysisMessage struct {
	Type     string          `json:"type"`
	Analysis EmotionAnalysis `json:"analysis"`
}

// ErrorMessage reports a pipeline failure to the originating session only.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewCallEvent(call entities.Call) NewCallMessage {
	return NewCallMessage{Type: TypeNewCall, Call: call}
}

func EmotionAnalysisEvent(analysis EmotionAnalysis) EmotionAnalysisMessage {
	return EmotionAnalysisMessage{Type: TypeEmotionAnalysis, Analysis: analysis}
}

func ErrorEvent(msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Error: msg}
}
