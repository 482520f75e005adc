package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Emotion labels produced by the SER model. Anything the model emits outside
// this set is stored as EmotionUnknown.
const (
	EmotionAngry   = "angry"
	EmotionFear    = "fear"
	EmotionHappy   = "happy"
	EmotionNeutral = "neutral"
	EmotionSad     = "sad"
	EmotionOther   = "other"
	EmotionUnknown = "unknown"
)

// EmotionLabels lists the labels the classifier is trained on, in a stable order.
var EmotionLabels = []string{EmotionAngry, EmotionFear, EmotionHappy, EmotionNeutral, EmotionSad}

// HighPriorityEmotions are the labels the dashboard treats as urgent.
var HighPriorityEmotions = []string{EmotionAngry, EmotionFear, EmotionSad}

// IsValidEmotion reports whether label belongs to the fixed enumeration,
// including the "other" and "unknown" catch-alls.
func IsValidEmotion(label string) bool {
	switch label {
	case EmotionAngry, EmotionFear, EmotionHappy, EmotionNeutral, EmotionSad, EmotionOther, EmotionUnknown:
		return true
	}
	return false
}

// NormalizeEmotion maps an arbitrary classifier label onto the enumeration,
// falling back to EmotionUnknown.
func NormalizeEmotion(label string) string {
	if IsValidEmotion(label) {
		return label
	}
	return EmotionUnknown
}

// Call is one classified utterance. Records are immutable once saved; the
// pipeline never updates or deletes them.
type Call struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Emotion     string             `json:"emotion" bson:"emotion"`
	Confidence  float64            `json:"confidence" bson:"confidence"`
	Predictions map[string]float64 `json:"emotion_predictions" bson:"emotion_predictions"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	CallerID    int64              `json:"caller_id" bson:"caller_id"`
	PhoneNumber string             `json:"phone_number" bson:"phone_number"`
	Latitude    *float64           `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty" bson:"longitude,omitempty"`
	TimeSpoken  float64            `json:"time_spoken" bson:"time_spoken"`
}
