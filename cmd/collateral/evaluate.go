package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"collateral-pipeline/internal/models"
	parseinput "collateral-pipeline/internal/workers/collateral/parse-input"
	evaluatecontent "collateral-pipeline/internal/workers/quality/evaluate-content"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Check generated copy against its source record",
	Long: `evaluate asks the model whether content.json invents facts absent from the
source record. It fails open: evaluator errors yield PASS with a reason.`,
	RunE: evaluate,
}

func init() {
	evaluateCmd.Flags().String("input", "", "source product record (JSON)")
	evaluateCmd.Flags().String("content", "", "generated content artifact (JSON)")
	_ = evaluateCmd.MarkFlagRequired("input")
	_ = evaluateCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(evaluateCmd)
}

func evaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	inputPath, _ := cmd.Flags().GetString("input")
	contentPath, _ := cmd.Flags().GetString("content")

	raw, err := readRecord(inputPath)
	if err != nil {
		return err
	}
	parsed, err := a.stages.Parse.Execute(cmd.Context(), &parseinput.Input{RawInput: raw})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(contentPath)
	if err != nil {
		return err
	}
	var content models.ContentResult
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("%s: %w", contentPath, err)
	}

	out, err := a.evaluator.Execute(cmd.Context(), &evaluatecontent.Input{
		ParsedInput: parsed.ParsedInput,
		Content:     content,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out.Evaluation)
}
