package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/common/genai/genaitest"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/models/modelstest"
	analyzeinput "collateral-pipeline/internal/workers/collateral/analyze-input"
	buildpages "collateral-pipeline/internal/workers/collateral/build-pages"
	checkquestioncount "collateral-pipeline/internal/workers/collateral/check-question-count"
	generatecomparison "collateral-pipeline/internal/workers/collateral/generate-comparison"
	generatecontent "collateral-pipeline/internal/workers/collateral/generate-content"
	generatequestions "collateral-pipeline/internal/workers/collateral/generate-questions"
	parseinput "collateral-pipeline/internal/workers/collateral/parse-input"
)

// System prompt fragments that identify each generation stage.
const (
	markerAnalysis   = "product analyst"
	markerContent    = "content generation assistant"
	markerQuestions  = "Q&A generation assistant"
	markerComparison = "competitive analysis expert"
)

func newTestStages(t *testing.T, client genai.Client) Stages {
	log := logger.NewTestLogger(t)
	exec := genai.NewExecutor(client, log, 0)

	return Stages{
		Parse:      parseinput.NewHandler(&parseinput.Config{}, log),
		Analyze:    analyzeinput.NewHandler(&analyzeinput.Config{MaxAttempts: analyzeinput.DefaultMaxAttempts}, exec, log),
		Content:    generatecontent.NewHandler(&generatecontent.Config{MaxAttempts: generatecontent.DefaultMaxAttempts}, exec, log),
		Questions:  generatequestions.NewHandler(&generatequestions.Config{MaxAttempts: generatequestions.DefaultMaxAttempts}, exec, log),
		Gate:       checkquestioncount.NewHandler(&checkquestioncount.Config{MinQuestions: 15, MaxAttempts: 3}, log),
		Comparison: generatecomparison.NewHandler(&generatecomparison.Config{MaxAttempts: generatecomparison.DefaultMaxAttempts}, exec, log),
		Pages:      buildpages.NewHandler(log),
	}
}

func newTestEngine(t *testing.T, client genai.Client) *Engine {
	return NewEngine(newTestStages(t, client), logger.NewTestLogger(t))
}

// happyClient answers every stage with a valid reply.
func happyClient(productB string) *genaitest.ScriptedClient {
	return genaitest.NewScriptedClient().
		Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
		Route(markerContent, genaitest.Text(modelstest.ContentJSON)).
		Route(markerQuestions, genaitest.Text(modelstest.QuestionsJSON(15))).
		Route(markerComparison, genaitest.Text(modelstest.ComparisonJSON(productB)))
}

func TestEngine_Run_HappyPath(t *testing.T) {
	client := happyClient("RadiantC Serum")

	state, err := newTestEngine(t, client).Run(context.Background(), "run-1", modelstest.Raw(true))

	require.NoError(t, err)
	assert.Equal(t, []StateID{
		StateParse, StateAnalyze, StateContent, StateQuestions, StateGate,
		StateComparison, StatePageBuild, StateSuccess,
	}, state.Trace)
	assert.Equal(t, StateSuccess, state.Current)
	assert.Equal(t, 1, state.QARetries)
	assert.Equal(t, 4, client.Calls())

	arts := state.Artifacts()
	assert.Equal(t, "run-1", arts.RunID)
	assert.Equal(t, "RadiantC Serum", arts.Comparison.ProductBName)
	assert.Equal(t, "Brighter skin with GlowBoost", arts.Pages.ProductPage.Headline)
	assert.Len(t, arts.Pages.FAQPage.FAQs, 15)
	assert.Len(t, arts.Pages.ComparisonPage.Competitors, 1)
}

func TestEngine_Run_ZeroCompetitorsFabricatesProductB(t *testing.T) {
	client := happyClient("Generic Vitamin C Serum")

	state, err := newTestEngine(t, client).Run(context.Background(), "run-1", modelstest.Raw(false))

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, state.Current)
	assert.Equal(t, "Generic Vitamin C Serum", state.Comparison.ProductBName)
	assert.Empty(t, state.ParsedInput.Competitors)
	assert.Empty(t, state.Pages.ComparisonPage.Competitors)
}

func TestEngine_Run_QuestionRetryThenAdvance(t *testing.T) {
	client := genaitest.NewScriptedClient().
		Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
		Route(markerContent, genaitest.Text(modelstest.ContentJSON)).
		Route(markerQuestions,
			genaitest.Text(modelstest.QuestionsJSON(14)),
			genaitest.Text(modelstest.QuestionsJSON(16)),
		).
		Route(markerComparison, genaitest.Text(modelstest.ComparisonJSON("RadiantC Serum")))

	state, err := newTestEngine(t, client).Run(context.Background(), "run-1", modelstest.Raw(true))

	require.NoError(t, err)
	assert.Equal(t, []StateID{
		StateParse, StateAnalyze, StateContent,
		StateQuestions, StateGate, StateQuestions, StateGate,
		StateComparison, StatePageBuild, StateSuccess,
	}, state.Trace)
	assert.Equal(t, 2, state.QARetries)
	assert.Len(t, state.Questions.QAPairs, 16)
	assert.Equal(t, 2, client.CallsMatching(markerQuestions))
}

func TestEngine_Run_InsufficientQuestionsAborts(t *testing.T) {
	client := genaitest.NewScriptedClient().
		Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
		Route(markerContent, genaitest.Text(modelstest.ContentJSON)).
		Route(markerQuestions, genaitest.Text(modelstest.QuestionsJSON(14))).
		Route(markerComparison, genaitest.Text(modelstest.ComparisonJSON("RadiantC Serum")))

	state, err := newTestEngine(t, client).Run(context.Background(), "run-1", modelstest.Raw(true))

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientQuestions, errors.Code(err))
	stdErr := errors.Normalize(err)
	assert.Equal(t, 14, stdErr.Metadata["actual"])
	assert.Equal(t, 3, stdErr.Metadata["retries"])

	assert.Equal(t, 3, state.QARetries)
	assert.Equal(t, 3, client.CallsMatching(markerQuestions))
	assert.Equal(t, 0, client.CallsMatching(markerComparison))
	assert.Equal(t, StateFatal, state.Current)
	assert.Equal(t, StateFatal, state.Trace[len(state.Trace)-1])
	assert.Nil(t, state.Pages)
}

func TestEngine_Run_QuestionCallCeiling(t *testing.T) {
	// Each generation uses all five attempts and finally yields 14 pairs.
	var replies []genaitest.Reply
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			replies = append(replies, genaitest.Text("not json"))
		}
		replies = append(replies, genaitest.Text(modelstest.QuestionsJSON(14)))
	}
	client := genaitest.NewScriptedClient().
		Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
		Route(markerContent, genaitest.Text(modelstest.ContentJSON)).
		Route(markerQuestions, replies...)

	_, err := newTestEngine(t, client).Run(context.Background(), "run-1", modelstest.Raw(true))

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientQuestions, errors.Code(err))
	assert.Equal(t, 15, client.CallsMatching(markerQuestions))
}

func TestEngine_Run_InvalidInputStopsAtParse(t *testing.T) {
	raw := modelstest.Raw(true)
	delete(raw["product"].(map[string]interface{}), "price")
	client := happyClient("RadiantC Serum")

	state, err := newTestEngine(t, client).Run(context.Background(), "run-1", raw)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, errors.Code(err))
	assert.Equal(t, []StateID{StateParse, StateFatal}, state.Trace)
	assert.Equal(t, 0, client.Calls())
}

func TestEngine_Run_StageFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name         string
		client       *genaitest.ScriptedClient
		expectedCode errors.ErrorCode
		lastState    StateID
	}{
		{
			name: "analysis fails on first bad reply",
			client: genaitest.NewScriptedClient().
				Route(markerAnalysis, genaitest.Text(`{"key_questions":[]}`)),
			expectedCode: errors.ErrCodeAnalysisFailed,
			lastState:    StateAnalyze,
		},
		{
			name: "content exhausts attempts",
			client: genaitest.NewScriptedClient().
				Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
				Route(markerContent, genaitest.Fail("rate limited")),
			expectedCode: errors.ErrCodeGenerationFailed,
			lastState:    StateContent,
		},
		{
			name: "comparison names the product itself",
			client: genaitest.NewScriptedClient().
				Route(markerAnalysis, genaitest.Text(modelstest.AnalysisJSON)).
				Route(markerContent, genaitest.Text(modelstest.ContentJSON)).
				Route(markerQuestions, genaitest.Text(modelstest.QuestionsJSON(15))).
				Route(markerComparison, genaitest.Text(modelstest.ComparisonJSON("GlowBoost Vitamin C Serum"))),
			expectedCode: errors.ErrCodeGenerationFailed,
			lastState:    StateComparison,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := newTestEngine(t, tt.client).Run(context.Background(), "run-1", modelstest.Raw(true))

			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, errors.Code(err))
			require.GreaterOrEqual(t, len(state.Trace), 2)
			assert.Equal(t, tt.lastState, state.Trace[len(state.Trace)-2])
			assert.Equal(t, StateFatal, state.Current)
			assert.Nil(t, state.Pages)
		})
	}
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := happyClient("RadiantC Serum")

	state, err := newTestEngine(t, client).Run(ctx, "run-1", modelstest.Raw(true))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []StateID{StateFatal}, state.Trace)
	assert.Equal(t, 0, client.Calls())
}

func TestEngine_Run_PageBuildIsDeterministic(t *testing.T) {
	engine := newTestEngine(t, happyClient("RadiantC Serum"))

	first, err := engine.Run(context.Background(), "run-1", modelstest.Raw(true))
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), "run-2", modelstest.Raw(true))
	require.NoError(t, err)

	a, err := json.Marshal(first.Pages)
	require.NoError(t, err)
	b, err := json.Marshal(second.Pages)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestState_ApplyLeavesNilFields(t *testing.T) {
	parsed := modelstest.ParsedInput(true)
	s := State{ParsedInput: &parsed}

	s.apply(Delta{QuestionAttempt: true})
	s.apply(Delta{QuestionAttempt: true})

	assert.Same(t, &parsed, s.ParsedInput)
	assert.Equal(t, 2, s.QARetries)
	assert.Nil(t, s.Analysis)
}
