package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/artifacts"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/models"
	"collateral-pipeline/internal/models/modelstest"
	"collateral-pipeline/internal/notify"
)

type recordingSink struct {
	mu     sync.Mutex
	writes []models.RunArtifacts
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(_ context.Context, run models.RunArtifacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, run)
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []notify.Summary
	err       error
}

func (n *recordingNotifier) Notify(_ context.Context, s notify.Summary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, s)
	return n.err
}

func fixedID(id string) func() string {
	return func() string { return id }
}

func TestCoordinator_Run_Success(t *testing.T) {
	sink := &recordingSink{}
	notifier := &recordingNotifier{}
	c := NewCoordinator(newTestEngine(t, happyClient("RadiantC Serum")), sink, logger.NewTestLogger(t),
		WithNotifier(notifier), WithRunIDs(fixedID("run-42")))

	result, err := c.Run(context.Background(), modelstest.Raw(true))

	require.NoError(t, err)
	assert.Equal(t, "run-42", result.RunID)
	assert.Equal(t, StateSuccess, result.Trace[len(result.Trace)-1])
	assert.Equal(t, 1, result.QARetries)

	require.Len(t, sink.writes, 1)
	assert.Equal(t, "run-42", sink.writes[0].RunID)
	assert.Equal(t, result.Artifacts, sink.writes[0])

	require.Len(t, notifier.summaries, 1)
	s := notifier.summaries[0]
	assert.Equal(t, notify.StatusSucceeded, s.Status)
	assert.Equal(t, "run-42", s.RunID)
	assert.Equal(t, "recording", s.Sink)
	assert.Empty(t, s.ErrorCode)
	assert.Equal(t, "success", s.Trace[len(s.Trace)-1])
}

func TestCoordinator_Run_FailureWritesNothing(t *testing.T) {
	client := happyClient("RadiantC Serum")
	sink := &recordingSink{}
	notifier := &recordingNotifier{}
	raw := modelstest.Raw(true)
	delete(raw, "product")

	c := NewCoordinator(newTestEngine(t, client), sink, logger.NewTestLogger(t), WithNotifier(notifier))

	result, err := c.Run(context.Background(), raw)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []StateID{StateParse, StateFatal}, result.Trace)
	assert.Empty(t, sink.writes)

	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, notify.StatusFailed, notifier.summaries[0].Status)
	assert.Equal(t, string(errors.ErrCodeInputValidationFailed), notifier.summaries[0].ErrorCode)
}

func TestCoordinator_Run_SinkError(t *testing.T) {
	sink := &recordingSink{err: stderrors.New("disk full")}
	notifier := &recordingNotifier{}
	c := NewCoordinator(newTestEngine(t, happyClient("RadiantC Serum")), sink, logger.NewTestLogger(t), WithNotifier(notifier))

	_, err := c.Run(context.Background(), modelstest.Raw(true))

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeArtifactWriteFailed, errors.Code(err))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, string(errors.ErrCodeArtifactWriteFailed), notifier.summaries[0].ErrorCode)
}

func TestCoordinator_Run_NotificationFailureIgnored(t *testing.T) {
	notifier := &recordingNotifier{err: stderrors.New("sns down")}
	c := NewCoordinator(newTestEngine(t, happyClient("RadiantC Serum")), &recordingSink{}, logger.NewTestLogger(t), WithNotifier(notifier))

	_, err := c.Run(context.Background(), modelstest.Raw(true))

	assert.NoError(t, err)
	assert.Len(t, notifier.summaries, 1)
}

func TestCoordinator_Run_FileSink(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(newTestEngine(t, happyClient("RadiantC Serum")), artifacts.NewFileSink(dir), logger.NewTestLogger(t),
		WithRunIDs(fixedID("run-file")))

	_, err := c.Run(context.Background(), modelstest.Raw(false))
	require.NoError(t, err)

	for _, name := range artifacts.Names {
		_, err := os.Stat(filepath.Join(dir, "run-file", name+".json"))
		assert.NoError(t, err, name)
	}
}

func TestCoordinator_Run_UniqueIDs(t *testing.T) {
	c := NewCoordinator(newTestEngine(t, happyClient("RadiantC Serum")), &recordingSink{}, logger.NewTestLogger(t))

	first, err := c.Run(context.Background(), modelstest.Raw(true))
	require.NoError(t, err)
	second, err := c.Run(context.Background(), modelstest.Raw(true))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}
