package evaluate

import "github.com/kvasnov/perturbia/internal/model"

// Summarize groups rows by attack and computes the mean of each numeric
// metric plus the sample size. Attack order follows first appearance in
// the rows, which follows processing order, so summaries are stable.
func Summarize(rows []model.EvaluationRow) []model.AttackSummary {
	type accumulator struct {
		exact   int
		f1      float64
		bleu    float64
		grammar int
		count   int
	}

	order := make([]string, 0)
	groups := make(map[string]*accumulator)

	for _, row := range rows {
		acc, ok := groups[row.Attack]
		if !ok {
			acc = &accumulator{}
			groups[row.Attack] = acc
			order = append(order, row.Attack)
		}

		if row.ExactMatch {
			acc.exact++
		}
		acc.f1 += row.F1Score
		acc.bleu += row.BLEUScore
		acc.grammar += row.GrammarErrors
		acc.count++
	}

	summaries := make([]model.AttackSummary, 0, len(order))
	for _, attack := range order {
		acc := groups[attack]
		n := float64(acc.count)
		summaries = append(summaries, model.AttackSummary{
			Attack:         attack,
			MeanExactMatch: float64(acc.exact) / n,
			MeanF1:         acc.f1 / n,
			MeanBLEU:       acc.bleu / n,
			MeanGrammar:    float64(acc.grammar) / n,
			SampleSize:     acc.count,
		})
	}

	return summaries
}
