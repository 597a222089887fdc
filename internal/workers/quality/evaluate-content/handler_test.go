package evaluatecontent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/common/genai"
	"collateral-pipeline/internal/common/genai/genaitest"
	"collateral-pipeline/internal/common/logger"
	"collateral-pipeline/internal/models"
	"collateral-pipeline/internal/models/modelstest"
)

func createTestHandler(t *testing.T, client genai.Client) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(&Config{MaxAttempts: DefaultMaxAttempts}, genai.NewExecutor(client, log, 0), log)
}

func testInput() *Input {
	return &Input{ParsedInput: modelstest.ParsedInput(true), Content: modelstest.Content()}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		reply          genaitest.Reply
		expectedStatus string
		expectedReason string
		reasonPrefix   string
	}{
		{
			name:           "pass verdict",
			reply:          genaitest.Text(`{"status":"PASS","reason":"Grounded"}`),
			expectedStatus: models.EvaluationPass,
			expectedReason: "Grounded",
		},
		{
			name:           "fail verdict",
			reply:          genaitest.Text("```json\n{\"status\":\"FAIL\",\"reason\":\"Mentions retinol\"}\n```"),
			expectedStatus: models.EvaluationFail,
			expectedReason: "Mentions retinol",
		},
		{
			name:           "transport error fails open",
			reply:          genaitest.Fail("upstream timeout"),
			expectedStatus: models.EvaluationPass,
			reasonPrefix:   "Evaluator error: ",
		},
		{
			name:           "unparseable reply fails open",
			reply:          genaitest.Text("looks fine to me"),
			expectedStatus: models.EvaluationPass,
			reasonPrefix:   "Evaluator error: ",
		},
		{
			name:           "missing status is a format error",
			reply:          genaitest.Text(`{"verdict":"ok"}`),
			expectedStatus: models.EvaluationPass,
			expectedReason: "Output format error, failing open.",
		},
		{
			name:           "unknown status is a format error",
			reply:          genaitest.Text(`{"status":"MAYBE","reason":"?"}`),
			expectedStatus: models.EvaluationPass,
			expectedReason: ReasonFormatError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := genaitest.NewScriptedClient(tt.reply)

			out, err := createTestHandler(t, client).Execute(context.Background(), testInput())

			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, 1, client.Calls())
			assert.Equal(t, tt.expectedStatus, out.Evaluation.Status)
			if tt.reasonPrefix != "" {
				assert.True(t, strings.HasPrefix(out.Evaluation.Reason, tt.reasonPrefix), out.Evaluation.Reason)
			} else {
				assert.Equal(t, tt.expectedReason, out.Evaluation.Reason)
			}
		})
	}
}

func TestHandler_Execute_ErrorReasonMentionsError(t *testing.T) {
	client := genaitest.NewScriptedClient(genaitest.Fail("connection refused"))

	out, err := createTestHandler(t, client).Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, models.EvaluationPass, out.Evaluation.Status)
	assert.Contains(t, strings.ToLower(out.Evaluation.Reason), "error")
	assert.Contains(t, out.Evaluation.Reason, "connection refused")
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(modelstest.ParsedInput(true), modelstest.Content())
	assert.Contains(t, p.User, "Source Data:")
	assert.Contains(t, p.User, "Brighter skin with GlowBoost")
}
