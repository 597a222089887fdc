package generatecomparison

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collateral-pipeline/internal/common/errors"
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

func TestHandler_Execute_WithCompetitor(t *testing.T) {
	client := genaitest.NewScriptedClient(genaitest.Text(modelstest.ComparisonJSON("RadiantC Serum")))

	out, err := createTestHandler(t, client).Execute(context.Background(), &Input{ParsedInput: modelstest.ParsedInput(true)})

	require.NoError(t, err)
	assert.Equal(t, "RadiantC Serum", out.Comparison.ProductBName)
	assert.Len(t, out.Comparison.Verdicts, 3)
	assert.Contains(t, client.Prompts()[0].User, "\"name\": \"RadiantC Serum\"")
}

func TestHandler_Execute_ZeroCompetitorsFabricates(t *testing.T) {
	client := genaitest.NewScriptedClient(genaitest.Text(modelstest.ComparisonJSON("Generic Vitamin C Serum")))

	out, err := createTestHandler(t, client).Execute(context.Background(), &Input{ParsedInput: modelstest.ParsedInput(false)})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Comparison.ProductBName)
	assert.NotEqual(t, modelstest.Product().Name, out.Comparison.ProductBName)

	skinTypes := map[string]bool{}
	for _, v := range out.Comparison.Verdicts {
		skinTypes[v.SkinType] = true
	}
	assert.Equal(t, map[string]bool{"Oily": true, "Dry": true, "Sensitive": true}, skinTypes)
	assert.Contains(t, client.Prompts()[0].User, "Product B:\n{}")
}

func TestHandler_Execute_OnlyFirstCompetitorUsed(t *testing.T) {
	client := genaitest.NewScriptedClient(genaitest.Text(modelstest.ComparisonJSON("RadiantC Serum")))
	parsed := modelstest.ParsedInput(true)
	parsed.Competitors = append(parsed.Competitors, models.Competitor{Name: "SecondBrand"})

	_, err := createTestHandler(t, client).Execute(context.Background(), &Input{ParsedInput: parsed})

	require.NoError(t, err)
	assert.NotContains(t, client.Prompts()[0].User, "SecondBrand")
}

func TestHandler_Execute_CheckFailuresExhaustThreeAttempts(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "product B is the product", reply: modelstest.ComparisonJSON("glowboost vitamin c serum")},
		{name: "empty product B", reply: modelstest.ComparisonJSON(" ")},
		{
			name: "duplicate skin type",
			reply: `{"product_b_name":"B","ingredient_comparison":"x","benefit_comparison":"y","verdicts":[` +
				`{"skin_type":"Oily","winner":"A","reasoning":"r"},` +
				`{"skin_type":"Oily","winner":"A","reasoning":"r"},` +
				`{"skin_type":"Dry","winner":"A","reasoning":"r"}]}`,
		},
		{
			name:  "missing verdicts",
			reply: `{"product_b_name":"B","ingredient_comparison":"x","benefit_comparison":"y","verdicts":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := genaitest.NewScriptedClient(genaitest.Text(tt.reply))

			out, err := createTestHandler(t, client).Execute(context.Background(), &Input{ParsedInput: modelstest.ParsedInput(false)})

			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, 3, client.Calls())
			assert.Equal(t, errors.ErrCodeGenerationFailed, errors.Code(err))
		})
	}
}

func TestCheckComparison(t *testing.T) {
	check := checkComparison("GlowBoost")

	assert.NoError(t, check(map[string]interface{}{
		"product_b_name": "RadiantC",
		"verdicts": []interface{}{
			map[string]interface{}{"skin_type": "Oily"},
			map[string]interface{}{"skin_type": "Dry"},
			map[string]interface{}{"skin_type": "Sensitive"},
		},
	}))
	assert.Error(t, check(map[string]interface{}{"product_b_name": "GLOWBOOST"}))
	assert.Error(t, check(map[string]interface{}{"product_b_name": "RadiantC"}))
}
