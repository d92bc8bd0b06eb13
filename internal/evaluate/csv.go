package evaluate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kvasnov/perturbia/internal/model"
)

// WriteRowsCSV writes one row per scored QA pair
func WriteRowsCSV(rows []model.EvaluationRow, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"attack", "question", "context", "ground_truth", "predicted_answer",
		"exact_match", "f1_score", "bleu_score", "grammatical_errors",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Attack,
			row.Question,
			row.Context,
			row.GroundTruth,
			row.PredictedAnswer,
			strconv.FormatBool(row.ExactMatch),
			formatFloat(row.F1Score),
			formatFloat(row.BLEUScore),
			strconv.Itoa(row.GrammarErrors),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummaryCSV writes one row per attack with metric means and the
// surviving sample size
func WriteSummaryCSV(summaries []model.AttackSummary, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"attack", "exact_match", "f1_score", "bleu_score", "grammatical_errors", "Sample Size"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, summary := range summaries {
		record := []string{
			summary.Attack,
			formatFloat(summary.MeanExactMatch),
			formatFloat(summary.MeanF1),
			formatFloat(summary.MeanBLEU),
			formatFloat(summary.MeanGrammar),
			strconv.Itoa(summary.SampleSize),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
