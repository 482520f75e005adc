package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/domain/entities"
	"emotional-analysis/internal/infra/logger"
	"emotional-analysis/internal/infra/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	msgs    []any
	failAll bool
	onWrite func(v any)
	closed  bool
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errors.New("write failed")
	}
	if c.onWrite != nil {
		c.onWrite(v)
	}
	c.msgs = append(c.msgs, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.msgs))
	copy(out, c.msgs)
	return out
}

type fakeStaging struct {
	mu       sync.Mutex
	stageErr error
	staged   []string
	released []string
	next     int
}

func (s *fakeStaging) Stage(payload []byte, callerID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stageErr != nil {
		return "", s.stageErr
	}
	s.next++
	handle := fmt.Sprintf("staged-%d-%d", callerID, s.next)
	s.staged = append(s.staged, handle)
	return handle, nil
}

func (s *fakeStaging) Release(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, handle)
}

func (s *fakeStaging) releaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.released)
}

type fakeClassifier struct {
	result dto.EmotionAnalysis
	err    error
}

func (c *fakeClassifier) Classify(ctx context.Context, audioPath string, callerID int64) (dto.EmotionAnalysis, error) {
	if c.err != nil {
		return dto.EmotionAnalysis{}, c.err
	}
	return c.result, nil
}

type fakeCallService struct {
	mu      sync.Mutex
	saveErr error
	saved   []entities.Call
	recent  []entities.Call
}

func (f *fakeCallService) Save(ctx context.Context, call entities.Call) (entities.Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return entities.Call{}, f.saveErr
	}
	f.saved = append(f.saved, call)
	return call, nil
}

func (f *fakeCallService) MostRecent(ctx context.Context, limit int64) ([]entities.Call, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int64(len(f.recent)) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeCallService) Search(ctx context.Context, searchType, query string) ([]entities.Call, error) {
	return nil, nil
}

func (f *fakeCallService) EmotionCounts(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeCallService) Statistics(ctx context.Context) (dto.StatisticsResponse, error) {
	return dto.StatisticsResponse{}, nil
}

func (f *fakeCallService) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(context.Background(), false)
}

func happyAnalysis() dto.EmotionAnalysis {
	return dto.EmotionAnalysis{
		Emotion:    entities.EmotionHappy,
		Confidence: 0.82,
		Predictions: map[string]float64{
			"happy": 0.82, "neutral": 0.1, "sad": 0.05, "angry": 0.02, "fear": 0.01,
		},
	}
}

func newTestCoordinator(t *testing.T, staging *fakeStaging, classifier *fakeClassifier, calls *fakeCallService) (*Coordinator, *Registry) {
	t.Helper()
	log := testLogger(t)
	registry := NewRegistry(log)
	return NewCoordinator(log, registry, staging, classifier, calls), registry
}

func audioRequest() dto.AudioRequest {
	return dto.AudioRequest{
		Payload:     []byte("RIFFdata"),
		CallerID:    42,
		PhoneNumber: "+15550042",
		Duration:    3,
	}
}

func TestHandleAudioSuccessBroadcastsToAllSessions(t *testing.T) {
	staging := &fakeStaging{}
	calls := &fakeCallService{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, calls)

	originConn := &fakeConn{}
	observerConn := &fakeConn{}
	origin := registry.Register(originConn)
	registry.Register(observerConn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	require.Equal(t, 1, calls.savedCount())
	saved := calls.saved[0]
	assert.Equal(t, entities.EmotionHappy, saved.Emotion)
	assert.Equal(t, 0.82, saved.Confidence)
	assert.Equal(t, int64(42), saved.CallerID)
	assert.Equal(t, 3.0, saved.TimeSpoken)
	assert.False(t, saved.Timestamp.IsZero())

	// The observer sees exactly the broadcast.
	observerMsgs := observerConn.messages()
	require.Len(t, observerMsgs, 1)
	newCall, ok := observerMsgs[0].(dto.NewCallMessage)
	require.True(t, ok)
	assert.Equal(t, dto.TypeNewCall, newCall.Type)
	assert.Equal(t, entities.EmotionHappy, newCall.Call.Emotion)

	// The originator sees the broadcast plus the full analysis.
	originMsgs := originConn.messages()
	require.Len(t, originMsgs, 2)
	analysis, ok := originMsgs[1].(dto.EmotionAnalysisMessage)
	require.True(t, ok)
	assert.Equal(t, dto.TypeEmotionAnalysis, analysis.Type)
	assert.Equal(t, happyAnalysis().Predictions, analysis.Analysis.Predictions)

	assert.Equal(t, 1, staging.releaseCount())
}

func TestHandleAudioPersistsBeforeBroadcast(t *testing.T) {
	staging := &fakeStaging{}
	calls := &fakeCallService{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, calls)

	persistedFirst := true
	conn := &fakeConn{}
	conn.onWrite = func(v any) {
		if _, ok := v.(dto.NewCallMessage); ok && calls.savedCount() == 0 {
			persistedFirst = false
		}
	}
	origin := registry.Register(conn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	assert.True(t, persistedFirst, "observer saw a record before it was persisted")
}

func TestHandleAudioStagingFailure(t *testing.T) {
	staging := &fakeStaging{stageErr: errors.New("disk full")}
	calls := &fakeCallService{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, calls)

	originConn := &fakeConn{}
	observerConn := &fakeConn{}
	origin := registry.Register(originConn)
	registry.Register(observerConn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	assert.Equal(t, 0, calls.savedCount())
	assert.Empty(t, observerConn.messages(), "other observers must see nothing for a failed request")

	originMsgs := originConn.messages()
	require.Len(t, originMsgs, 1)
	errMsg, ok := originMsgs[0].(dto.ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, dto.TypeError, errMsg.Type)
}

func TestHandleAudioClassificationFailureReleasesStaging(t *testing.T) {
	staging := &fakeStaging{}
	calls := &fakeCallService{}
	classifier := &fakeClassifier{err: &provider.ClassificationError{Kind: provider.ExternalFailure, Detail: "exit status 1"}}
	coord, registry := newTestCoordinator(t, staging, classifier, calls)

	originConn := &fakeConn{}
	observerConn := &fakeConn{}
	origin := registry.Register(originConn)
	registry.Register(observerConn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	assert.Equal(t, 0, calls.savedCount(), "no call record on classification failure")
	assert.Empty(t, observerConn.messages(), "no broadcast on classification failure")
	assert.Equal(t, 1, staging.releaseCount(), "staged payload must be released")

	originMsgs := originConn.messages()
	require.Len(t, originMsgs, 1)
	_, ok := originMsgs[0].(dto.ErrorMessage)
	require.True(t, ok)
}

func TestHandleAudioTimeoutMessage(t *testing.T) {
	staging := &fakeStaging{}
	classifier := &fakeClassifier{err: &provider.ClassificationError{Kind: provider.Timeout, Detail: "budget elapsed"}}
	coord, registry := newTestCoordinator(t, staging, classifier, &fakeCallService{})

	conn := &fakeConn{}
	origin := registry.Register(conn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	msgs := conn.messages()
	require.Len(t, msgs, 1)
	errMsg := msgs[0].(dto.ErrorMessage)
	assert.Contains(t, errMsg.Error, "timed out")
	assert.Equal(t, 1, staging.releaseCount())
}

func TestHandleAudioPersistenceFailureReleasesStaging(t *testing.T) {
	staging := &fakeStaging{}
	calls := &fakeCallService{saveErr: errors.New("mongo down")}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, calls)

	originConn := &fakeConn{}
	observerConn := &fakeConn{}
	origin := registry.Register(originConn)
	registry.Register(observerConn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	assert.Empty(t, observerConn.messages())
	assert.Equal(t, 1, staging.releaseCount())

	originMsgs := originConn.messages()
	require.Len(t, originMsgs, 1)
	errMsg := originMsgs[0].(dto.ErrorMessage)
	assert.Contains(t, errMsg.Error, "save")
}

func TestHandleAudioReleaseHappensAtMostOnce(t *testing.T) {
	staging := &fakeStaging{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, &fakeCallService{})

	origin := registry.Register(&fakeConn{})
	coord.HandleAudio(context.Background(), origin, audioRequest())

	assert.Equal(t, 1, staging.releaseCount())
}

func TestBroadcastDeliveryFailureDoesNotBlockOthers(t *testing.T) {
	staging := &fakeStaging{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, &fakeCallService{})

	origin := registry.Register(&fakeConn{})
	deadConn := &fakeConn{failAll: true}
	dead := registry.Register(deadConn)
	healthyConn := &fakeConn{}
	registry.Register(healthyConn)

	coord.HandleAudio(context.Background(), origin, audioRequest())

	require.Len(t, healthyConn.messages(), 1, "healthy observer must still receive the broadcast")
	assert.False(t, registry.IsLive(dead.ID()), "failed send must unregister the session")
	assert.Equal(t, 2, registry.Count())
}

func TestSendInitialDeliversMostRecentRecord(t *testing.T) {
	newest := entities.Call{Emotion: entities.EmotionSad, CallerID: 7, Timestamp: time.Now()}
	calls := &fakeCallService{recent: []entities.Call{newest, {Emotion: entities.EmotionHappy, CallerID: 1}}}
	coord, registry := newTestCoordinator(t, &fakeStaging{}, &fakeClassifier{}, calls)

	conn := &fakeConn{}
	s := registry.Register(conn)
	coord.SendInitial(context.Background(), s)

	msgs := conn.messages()
	require.Len(t, msgs, 1, "late joiner receives exactly the most recent record")
	msg := msgs[0].(dto.NewCallMessage)
	assert.Equal(t, entities.EmotionSad, msg.Call.Emotion)
	assert.Equal(t, int64(7), msg.Call.CallerID)
}

func TestSendInitialWithEmptyStoreSendsNothing(t *testing.T) {
	coord, registry := newTestCoordinator(t, &fakeStaging{}, &fakeClassifier{}, &fakeCallService{})

	conn := &fakeConn{}
	s := registry.Register(conn)
	coord.SendInitial(context.Background(), s)

	assert.Empty(t, conn.messages())
}

func TestHandleAudioConcurrentRequests(t *testing.T) {
	staging := &fakeStaging{}
	calls := &fakeCallService{}
	coord, registry := newTestCoordinator(t, staging, &fakeClassifier{result: happyAnalysis()}, calls)

	origin := registry.Register(&fakeConn{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord.HandleAudio(context.Background(), origin, audioRequest())
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, calls.savedCount())
	assert.Equal(t, 16, staging.releaseCount())
}
