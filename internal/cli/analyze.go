package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"room-service/internal/extraction"
	"room-service/internal/guidance"
	"room-service/internal/services"
)

type analyzeOptions struct {
	threshold   float64
	concurrency int
	summaryOnly bool
}

func newAnalyzeCmd(logger func() *zap.Logger) *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <payload.json|dir|archive>",
		Short: "Run spatial analysis and guidance over detection payloads",
		Long: `Reads analyze-room JSON payloads from a single file, a directory or a
zip/tar archive and prints the analysis of each as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payloads, err := loadPayloads(cmd, args[0])
			if err != nil {
				return err
			}
			if len(payloads) == 0 {
				return errors.Errorf("no .json payloads found in %s", args[0])
			}

			svc := services.NewAnalysisService(guidance.NewEngine(logger()), services.AnalysisOptions{
				ConfidenceThreshold: opts.threshold,
				BatchConcurrency:    opts.concurrency,
			}, logger())

			results := make([]map[string]any, 0, len(payloads))
			for _, item := range svc.AnalyzeBatch(cmd.Context(), payloads) {
				results = append(results, renderItem(item, opts.summaryOnly))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.Flags().Float64Var(&opts.threshold, "threshold", services.DefaultConfidenceThreshold, "minimum detection confidence")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", services.DefaultBatchConcurrency, "payloads analyzed in parallel")
	cmd.Flags().BoolVar(&opts.summaryOnly, "summary-only", false, "print only the improvement summary per payload")

	return cmd
}

func loadPayloads(cmd *cobra.Command, path string) ([]extraction.Payload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []extraction.Payload{{Name: filepath.Base(path), Data: data}}, nil
	}
	return extraction.ReadPayloads(cmd.Context(), path)
}

func renderItem(item services.BatchItem, summaryOnly bool) map[string]any {
	if item.Outcome == nil {
		return map[string]any{"name": item.Name, "error": item.Error}
	}
	a := item.Outcome.Analysis
	if summaryOnly {
		return map[string]any{
			"name":                    item.Name,
			"room_type":               a.RoomType,
			"object_count":            a.ObjectCount,
			"improvement_suggestions": a.Summary,
		}
	}
	return map[string]any{
		"name":                    item.Name,
		"room_type":               a.RoomType,
		"detected_objects":        a.Detection,
		"spatial_analysis":        a.Spatial,
		"spatial_guidance":        a.Guidance,
		"improvement_suggestions": a.Summary,
		"stage_timings_ms":        item.Outcome.Timings,
	}
}
