package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/domain/entities"
	"emotional-analysis/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

// SERProvider invokes the speech emotion recognition model as a child
// process. The model takes the audio file path as its only argument and
// writes a JSON result to stdout:
//
//	{"emotion": "happy", "confidence": 0.82, "predictions": {"happy": 0.82, ...}}
//
// A model-side failure is reported either through a non-zero exit code or an
// exit-0 {"error": "..."} object; both surface as ExternalFailure.
type SERProvider struct {
	Logger     *logger.Logger
	Python     string
	ScriptPath string
	Timeout    time.Duration
}

func NewSERProvider(logger *logger.Logger, python, scriptPath string, timeout time.Duration) *SERProvider {
	return &SERProvider{Logger: logger, Python: python, ScriptPath: scriptPath, Timeout: timeout}
}

// serOutput is the raw model output before validation.
type serOutput struct {
	Emotion     string             `json:"emotion"`
	Confidence  float64            `json:"confidence"`
	Predictions map[string]float64 `json:"predictions"`
	Error       string             `json:"error"`
}

// Classify runs the model over audioPath within the provider's wall-clock
// budget. The child process is killed when the budget elapses and the attempt
// is reported as a Timeout.
func (p *SERProvider) Classify(ctx context.Context, audioPath string, callerID int64) (dto.EmotionAnalysis, error) {
	if audioPath == "" {
		return dto.EmotionAnalysis{}, &ClassificationError{Kind: ExternalFailure, Detail: "empty audio path"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Python, p.ScriptPath, audioPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		p.Logger.Warn("SER model timed out", logrus.Fields{
			"caller_id": callerID,
			"budget":    p.Timeout.String(),
		})
		return dto.EmotionAnalysis{}, &ClassificationError{
			Kind:   Timeout,
			Detail: fmt.Sprintf("model exceeded %s budget", p.Timeout),
		}
	}
	if err != nil {
		p.Logger.Error("SER model process failed", logrus.Fields{
			"caller_id": callerID,
			"stderr":    stderr.String(),
			"error":     err.Error(),
		})
		return dto.EmotionAnalysis{}, &ClassificationError{
			Kind:   ExternalFailure,
			Detail: fmt.Sprintf("model process: %v: %s", err, stderr.String()),
		}
	}

	var out serOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return dto.EmotionAnalysis{}, &ClassificationError{
			Kind:   ExternalFailure,
			Detail: fmt.Sprintf("unparseable model output: %v: %q", err, stdout.String()),
		}
	}
	if out.Error != "" {
		return dto.EmotionAnalysis{}, &ClassificationError{Kind: ExternalFailure, Detail: out.Error}
	}
	if out.Emotion == "" || out.Predictions == nil {
		return dto.EmotionAnalysis{}, &ClassificationError{
			Kind:   ExternalFailure,
			Detail: fmt.Sprintf("incomplete model output: %q", stdout.String()),
		}
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return dto.EmotionAnalysis{}, &ClassificationError{
			Kind:   ExternalFailure,
			Detail: fmt.Sprintf("confidence %v outside [0,1]", out.Confidence),
		}
	}

	p.Logger.Debug("SER model completed", logrus.Fields{
		"caller_id": callerID,
		"emotion":   out.Emotion,
		"elapsed":   elapsed.String(),
	})

	return dto.EmotionAnalysis{
		Emotion:     entities.NormalizeEmotion(out.Emotion),
		Confidence:  out.Confidence,
		Predictions: out.Predictions,
	}, nil
}
