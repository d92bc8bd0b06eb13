package model

// EvaluationRow is one scored example. Rows are write-once: they are
// appended during evaluation, grouped for summaries, never mutated.
type EvaluationRow struct {
	Attack          string  `json:"attack"`
	Question        string  `json:"question"`
	Context         string  `json:"context"` // truncated for reporting
	GroundTruth     string  `json:"ground_truth"`
	PredictedAnswer string  `json:"predicted_answer"`
	ExactMatch      bool    `json:"exact_match"`
	F1Score         float64 `json:"f1_score"`
	BLEUScore       float64 `json:"bleu_score"`
	GrammarErrors   int     `json:"grammatical_errors"`
}

// AttackSummary aggregates the rows of one attack: mean of each numeric
// metric plus the number of rows that survived the skip policy.
type AttackSummary struct {
	Attack         string  `json:"attack"`
	MeanExactMatch float64 `json:"exact_match"`
	MeanF1         float64 `json:"f1_score"`
	MeanBLEU       float64 `json:"bleu_score"`
	MeanGrammar    float64 `json:"grammatical_errors"`
	SampleSize     int     `json:"sample_size"`
}

// TransformStats are diagnostics from a corpus transformation. Dropped
// counts QA pairs whose answers could not be relocated; it is reported,
// never treated as an error.
type TransformStats struct {
	Paragraphs int `json:"paragraphs"`
	QAPairs    int `json:"qa_pairs"`
	Dropped    int `json:"dropped"`
}
