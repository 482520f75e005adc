package realtime

import (
	"context"
	"time"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/domain/entities"
	Iservices "emotional-analysis/internal/domain/interfaces/services"
	"emotional-analysis/internal/infra/logger"
	"emotional-analysis/internal/infra/provider"

	"github.com/sirupsen/logrus"
)

// requestState tracks a single audio submission through the pipeline. Each
// request moves received → staged → classifying → classified → persisted →
// published → done, or lands in one of the terminal *_failed states.
type requestState string

const (
	stateReceived    requestState = "received"
	stateStaged      requestState = "staged"
	stateClassifying requestState = "classifying"
	stateClassified  requestState = "classified"
	statePersisted   requestState = "persisted"
	statePublished   requestState = "published"
	stateDone        requestState = "done"

	stateStagingFailed        requestState = "staging_failed"
	stateClassificationFailed requestState = "classification_failed"
	statePersistenceFailed    requestState = "persistence_failed"
)

// Coordinator drives each inbound audio submission through staging,
// classification and persistence, then fans the result out to every live
// session. Failures abort only the request they belong to and are reported to
// the originating session alone.
type Coordinator struct {
	Logger     *logger.Logger
	Registry   *Registry
	Staging    Iservices.IStagingService
	Classifier provider.IClassifierProvider
	Calls      Iservices.ICallService
}

func NewCoordinator(logger *logger.Logger, registry *Registry, staging Iservices.IStagingService, classifier provider.IClassifierProvider, calls Iservices.ICallService) *Coordinator {
	return &Coordinator{
		Logger:     logger,
		Registry:   registry,
		Staging:    staging,
		Classifier: classifier,
		Calls:      calls,
	}
}

// SendInitial delivers the single most recent call record to a newly
// registered session, so late joiners see current state without waiting for
// new traffic. A session joining an empty store receives nothing.
func (c *Coordinator) SendInitial(ctx context.Context, s *Session) {
	recent, err := c.Calls.MostRecent(ctx, 1)
	if err != nil {
		c.Logger.Error("failed to load initial call record", logrus.Fields{
			"session_id": s.ID(),
			"error":      err.Error(),
		})
		return
	}
	if len(recent) == 0 {
		return
	}
	if err := s.Send(dto.NewCallEvent(recent[0])); err != nil {
		c.Registry.Unregister(s.ID())
	}
}

// HandleAudio runs one submission through the pipeline. The staged payload is
// released exactly once on every exit path; the broadcast happens only after
// the record has persisted, so observers never see an unpersisted record.
func (c *Coordinator) HandleAudio(ctx context.Context, origin *Session, req dto.AudioRequest) {
	fields := logrus.Fields{"session_id": origin.ID(), "caller_id": req.CallerID}
	c.transition(stateReceived, fields)

	handle, err := c.Staging.Stage(req.Payload, req.CallerID)
	if err != nil {
		c.fail(origin, stateStagingFailed, fields, err, "failed to store audio payload")
		return
	}
	c.transition(stateStaged, fields)

	released := false
	release := func() {
		if !released {
			released = true
			c.Staging.Release(handle)
		}
	}
	defer release()

	c.transition(stateClassifying, fields)
	analysis, err := c.Classifier.Classify(ctx, handle, req.CallerID)
	if err != nil {
		c.fail(origin, stateClassificationFailed, fields, err, classificationErrorMessage(err))
		return
	}
	c.transition(stateClassified, fields)

	call := entities.Call{
		Emotion:     analysis.Emotion,
		Confidence:  analysis.Confidence,
		Predictions: analysis.Predictions,
		Timestamp:   time.Now(),
		CallerID:    req.CallerID,
		PhoneNumber: req.PhoneNumber,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		TimeSpoken:  req.Duration,
	}

	saved, err := c.Calls.Save(ctx, call)
	if err != nil {
		c.fail(origin, statePersistenceFailed, fields, err, "failed to save call record")
		return
	}
	c.transition(statePersisted, fields)

	release()

	c.broadcast(dto.NewCallEvent(saved))
	c.transition(statePublished, fields)

	if err := origin.Send(dto.EmotionAnalysisEvent(analysis)); err != nil {
		c.Registry.Unregister(origin.ID())
	}

	fields["state"] = string(stateDone)
	fields["emotion"] = saved.Emotion
	c.Logger.Info("call processed", fields)
}

// transition records a state change for one request at debug level.
func (c *Coordinator) transition(state requestState, fields logrus.Fields) {
	f := logrus.Fields{"state": string(state)}
	for k, v := range fields {
		f[k] = v
	}
	c.Logger.Debug("call pipeline state", f)
}

// broadcast delivers msg to every live session. A failed send drops that
// session and moves on; it never aborts delivery to the rest.
func (c *Coordinator) broadcast(msg any) {
	c.Registry.ForEachLive(func(s *Session) {
		if err := s.Send(msg); err != nil {
			c.Logger.Warn("dropping session after failed delivery", logrus.Fields{
				"session_id": s.ID(),
				"error":      err.Error(),
			})
			c.Registry.Unregister(s.ID())
		}
	})
}

// fail logs the terminal state and reports the error to the originator only.
// Other observers see nothing for a failed request.
func (c *Coordinator) fail(origin *Session, state requestState, fields logrus.Fields, err error, userMsg string) {
	fields["state"] = string(state)
	fields["error"] = err.Error()
	c.Logger.Error("call pipeline failed", fields)

	if sendErr := origin.Send(dto.ErrorEvent(userMsg)); sendErr != nil {
		c.Registry.Unregister(origin.ID())
	}
}

// classificationErrorMessage maps a classifier failure onto the message shown
// to the submitting client.
func classificationErrorMessage(err error) string {
	if cerr, ok := provider.AsClassificationError(err); ok && cerr.Kind == provider.Timeout {
		return "emotion analysis timed out"
	}
	return "failed to analyze audio"
}
