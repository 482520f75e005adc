package provider

import (
	"context"

	"emotional-analysis/internal/domain/dto"
)

// IClassifierProvider runs one emotion classification over a staged audio
// file. Implementations either return a fully populated analysis or a
// *ClassificationError; no partial result is ever returned.
type IClassifierProvider interface {
	Classify(ctx context.Context, audioPath string, callerID int64) (dto.EmotionAnalysis, error)
}
