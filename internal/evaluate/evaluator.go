// Package evaluate runs a black-box QA predictor over a corpus and
// aggregates per-example metrics into per-attack summaries.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasnov/perturbia/internal/grammar"
	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/predict"
)

// skipWindow is the answer-position cutoff: examples whose ground-truth
// answer does not occur within the first 512 characters of the context
// are silently skipped. Changing it (e.g. to the model's real tokenized
// length) would change which examples are scored and make results
// incomparable across runs.
const skipWindow = 512

// Evaluator scores a corpus against a predictor
type Evaluator struct {
	predictor predict.Predictor
	grammar   grammar.Estimator
	progress  func(done, total int)
}

// NewEvaluator creates an evaluator. A nil estimator disables grammar
// counting (rows report zero errors).
func NewEvaluator(predictor predict.Predictor, estimator grammar.Estimator) *Evaluator {
	if estimator == nil {
		estimator = grammar.Disabled{}
	}
	return &Evaluator{predictor: predictor, grammar: estimator}
}

// OnProgress installs a progress observer called after each scored pair
func (e *Evaluator) OnProgress(fn func(done, total int)) {
	e.progress = fn
}

// Evaluate produces one row per scored QA pair. Pairs without answers
// and pairs failing the 512-character window check are skipped silently;
// predictor and grammar failures abort the run (they indicate a broken
// collaborator, not a property of the example).
func (e *Evaluator) Evaluate(ctx context.Context, corpus *model.Corpus, attackName string) ([]model.EvaluationRow, error) {
	var rows []model.EvaluationRow

	total := corpus.QAPairCount()
	done := 0

	for _, article := range corpus.Articles {
		for _, paragraph := range article.Paragraphs {
			window := contextWindow(paragraph.Context)

			for _, pair := range paragraph.QAPairs {
				done++

				if !pair.HasAnswer() {
					continue
				}
				if !strings.Contains(window, pair.Answer.Text) {
					// Silent skip: answer out of the window
					continue
				}

				prediction, err := e.predictor.Predict(ctx, pair.Question, paragraph.Context)
				if err != nil {
					return nil, fmt.Errorf("predict %s: %w", pair.ID, err)
				}

				errorCount, err := e.grammar.CountErrors(ctx, prediction)
				if err != nil {
					return nil, fmt.Errorf("grammar check %s: %w", pair.ID, err)
				}

				rows = append(rows, model.EvaluationRow{
					Attack:          attackName,
					Question:        pair.Question,
					Context:         window,
					GroundTruth:     pair.Answer.Text,
					PredictedAnswer: prediction,
					ExactMatch:      ExactMatch(prediction, pair.Answer.Text),
					F1Score:         F1(prediction, pair.Answer.Text),
					BLEUScore:       BLEU(prediction, pair.Answer.Text),
					GrammarErrors:   errorCount,
				})

				if e.progress != nil {
					e.progress(done, total)
				}
			}
		}
	}

	return rows, nil
}

// contextWindow returns the first skipWindow characters (runes) of the
// context, which doubles as the truncated context stored in rows
func contextWindow(context string) string {
	runes := []rune(context)
	if len(runes) <= skipWindow {
		return context
	}
	return string(runes[:skipWindow])
}
