package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"shopassist/internal/service"
)

var extractDedup bool

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify the intent of a shopping query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier := service.NewIntentClassifier(nil, maxQueryLength)
		result := classifier.Classify(strings.Join(args, " "))

		return writeJSON(cmd, map[string]any{
			"intent":      result.Intent,
			"confidence":  result.Confidence,
			"entities":    result.Entities,
			"all_scores":  result.AllScores,
			"explanation": service.Explanation(result.Intent),
		})
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <text>",
	Short: "Extract product entities from a shopping query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier := service.NewIntentClassifier(nil, maxQueryLength)
		entities := classifier.Extract(strings.Join(args, " "))
		if extractDedup {
			entities = entities.Deduplicated()
		}
		return writeJSON(cmd, entities)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractDedup, "dedup", false, "drop repeated entities")
	rootCmd.AddCommand(classifyCmd, extractCmd)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
