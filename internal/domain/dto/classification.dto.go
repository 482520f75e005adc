package dto

// EmotionAnalysis is the structured output of one classification attempt:
// the winning label, its confidence and the per-label probability vector.
// The vector is treated as relative weights and is not required to sum to 1.
type EmotionAnalysis struct {
	Emotion     string             `json:"emotion"`
	Confidence  float64            `json:"confidence"`
	Predictions map[string]float64 `json:"predictions"`
}
