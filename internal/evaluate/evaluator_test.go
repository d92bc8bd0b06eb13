package evaluate

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvasnov/perturbia/internal/model"
)

// scriptedPredictor returns canned answers keyed by question
type scriptedPredictor struct {
	answers map[string]string
	calls   []string
}

func (p *scriptedPredictor) Name() string  { return "scripted" }
func (p *scriptedPredictor) Model() string { return "scripted-v1" }
func (p *scriptedPredictor) Predict(ctx context.Context, question, passage string) (string, error) {
	p.calls = append(p.calls, question)
	return p.answers[question], nil
}

func evalCorpus() *model.Corpus {
	return &model.Corpus{
		Version: "v2.0",
		Articles: []model.Article{
			{
				Title: "Mixed",
				Paragraphs: []model.Paragraph{
					{
						Context: "Paris is the capital of France. The sky is blue.",
						QAPairs: []model.QAPair{
							{
								ID:       "q1",
								Question: "What is the capital of France?",
								Answer:   &model.Answer{Text: "Paris", Start: 0},
							},
							{
								ID:       "q2",
								Question: "What color is the sky?",
								Answer:   &model.Answer{Text: "blue", Start: 43},
							},
							{
								ID:           "q3",
								Question:     "What is the capital of Atlantis?",
								IsImpossible: true,
							},
						},
					},
				},
			},
		},
	}
}

func TestEvaluate_Rows(t *testing.T) {
	predictor := &scriptedPredictor{answers: map[string]string{
		"What is the capital of France?": "Paris",
		"What color is the sky?":         "green",
	}}

	evaluator := NewEvaluator(predictor, nil)

	rows, err := evaluator.Evaluate(context.Background(), evalCorpus(), "addsent")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// q3 has no answer and is never scored
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if len(predictor.calls) != 2 {
		t.Errorf("Expected 2 predictor calls, got %d", len(predictor.calls))
	}

	first := rows[0]
	if first.Attack != "addsent" {
		t.Errorf("Expected attack addsent, got %s", first.Attack)
	}
	if !first.ExactMatch || first.F1Score != 1 {
		t.Errorf("Expected exact match for q1, got %+v", first)
	}

	second := rows[1]
	if second.ExactMatch || second.F1Score != 0 {
		t.Errorf("Expected miss for q2, got %+v", second)
	}
}

func TestEvaluate_SkipsAnswerBeyondWindow(t *testing.T) {
	// Answer text first occurs past the 512-character window: the pair
	// is skipped silently, not failed
	padding := strings.Repeat("x ", 300) // 600 characters
	corpus := &model.Corpus{
		Version: "v2.0",
		Articles: []model.Article{
			{
				Title: "Long",
				Paragraphs: []model.Paragraph{
					{
						Context: padding + "The treasure is hidden in Zanzibar.",
						QAPairs: []model.QAPair{
							{
								ID:       "q1",
								Question: "Where is the treasure hidden?",
								Answer:   &model.Answer{Text: "Zanzibar", Start: 626},
							},
						},
					},
				},
			},
		},
	}

	predictor := &scriptedPredictor{answers: map[string]string{}}
	evaluator := NewEvaluator(predictor, nil)

	rows, err := evaluator.Evaluate(context.Background(), corpus, "addany")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected 0 rows, got %d", len(rows))
	}
	if len(predictor.calls) != 0 {
		t.Errorf("Expected no predictor calls for skipped pair, got %d", len(predictor.calls))
	}
}

func TestEvaluate_TruncatedContextColumn(t *testing.T) {
	longTail := strings.Repeat(" and so on", 100)
	corpus := &model.Corpus{
		Version: "v2.0",
		Articles: []model.Article{
			{
				Title: "Long",
				Paragraphs: []model.Paragraph{
					{
						Context: "Paris is the capital of France." + longTail,
						QAPairs: []model.QAPair{
							{
								ID:       "q1",
								Question: "What is the capital of France?",
								Answer:   &model.Answer{Text: "Paris", Start: 0},
							},
						},
					},
				},
			},
		},
	}

	predictor := &scriptedPredictor{answers: map[string]string{
		"What is the capital of France?": "Paris",
	}}
	evaluator := NewEvaluator(predictor, nil)

	rows, err := evaluator.Evaluate(context.Background(), corpus, "addany")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if got := len([]rune(rows[0].Context)); got != 512 {
		t.Errorf("Expected context truncated to 512 runes, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.EvaluationRow{
		{Attack: "addany", ExactMatch: true, F1Score: 1, BLEUScore: 1, GrammarErrors: 0},
		{Attack: "addany", ExactMatch: false, F1Score: 0.5, BLEUScore: 0, GrammarErrors: 2},
		{Attack: "addsent", ExactMatch: false, F1Score: 0, BLEUScore: 0, GrammarErrors: 1},
	}

	summaries := Summarize(rows)
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	addany := summaries[0]
	if addany.Attack != "addany" || addany.SampleSize != 2 {
		t.Errorf("Unexpected first summary: %+v", addany)
	}
	if math.Abs(addany.MeanExactMatch-0.5) > 1e-9 {
		t.Errorf("Expected mean exact match 0.5, got %f", addany.MeanExactMatch)
	}
	if math.Abs(addany.MeanF1-0.75) > 1e-9 {
		t.Errorf("Expected mean F1 0.75, got %f", addany.MeanF1)
	}
	if math.Abs(addany.MeanGrammar-1) > 1e-9 {
		t.Errorf("Expected mean grammar errors 1, got %f", addany.MeanGrammar)
	}

	addsent := summaries[1]
	if addsent.Attack != "addsent" || addsent.SampleSize != 1 {
		t.Errorf("Unexpected second summary: %+v", addsent)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	rowsPath := filepath.Join(dir, "rows.csv")
	summaryPath := filepath.Join(dir, "summary.csv")

	rows := []model.EvaluationRow{
		{
			Attack:          "addany",
			Question:        "What is the capital of France?",
			Context:         "Paris is the capital of France.",
			GroundTruth:     "Paris",
			PredictedAnswer: "Paris",
			ExactMatch:      true,
			F1Score:         1,
			BLEUScore:       0,
			GrammarErrors:   0,
		},
	}

	if err := WriteRowsCSV(rows, rowsPath); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := WriteSummaryCSV(Summarize(rows), summaryPath); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	file, err := os.Open(rowsPath)
	if err != nil {
		t.Fatalf("Expected rows file, got %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Expected parseable CSV, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d records", len(records))
	}

	wantHeader := "attack,question,context,ground_truth,predicted_answer,exact_match,f1_score,bleu_score,grammatical_errors"
	if strings.Join(records[0], ",") != wantHeader {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][5] != "true" {
		t.Errorf("Expected exact_match true, got %q", records[1][5])
	}

	summaryFile, err := os.Open(summaryPath)
	if err != nil {
		t.Fatalf("Expected summary file, got %v", err)
	}
	defer func() { _ = summaryFile.Close() }()

	summaryRecords, err := csv.NewReader(summaryFile).ReadAll()
	if err != nil {
		t.Fatalf("Expected parseable summary CSV, got %v", err)
	}
	if len(summaryRecords) != 2 {
		t.Fatalf("Expected header + 1 summary, got %d records", len(summaryRecords))
	}
	if summaryRecords[0][5] != "Sample Size" {
		t.Errorf("Expected Sample Size column, got %q", summaryRecords[0][5])
	}
	if summaryRecords[1][5] != "1" {
		t.Errorf("Expected sample size 1, got %q", summaryRecords[1][5])
	}
}
