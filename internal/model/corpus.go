package model

// OutputVersion is the version tag written to every serialized corpus,
// regardless of the version the input carried.
const OutputVersion = "v2.0"

// Corpus is the root of a SQuAD-style reading-comprehension dataset
type Corpus struct {
	Version  string    `json:"version"`
	Articles []Article `json:"data"`
}

// Article groups the paragraphs of a single source document
type Article struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph is a passage of text plus the questions asked about it.
// Invariant: every non-empty answer is a verbatim substring of Context
// starting exactly at its Start offset.
type Paragraph struct {
	Context string   `json:"context"`
	QAPairs []QAPair `json:"qas"`
}

// QAPair is a single question about a paragraph. At most one answer is
// kept: when the source lists several, only the first is needed to anchor
// perturbation.
type QAPair struct {
	ID           string  `json:"id,omitempty"`
	Question     string  `json:"question"`
	IsImpossible bool    `json:"is_impossible,omitempty"`
	Answer       *Answer `json:"-"`
}

// Answer is an answer span: the text and its start offset (in runes)
// into the owning paragraph's context.
type Answer struct {
	Text  string `json:"text"`
	Start int    `json:"answer_start"`
}

// HasAnswer reports whether the pair carries a non-empty answer span
func (q *QAPair) HasAnswer() bool {
	return q.Answer != nil && q.Answer.Text != ""
}

// ParagraphCount returns the total number of paragraphs in the corpus
func (c *Corpus) ParagraphCount() int {
	count := 0
	for _, article := range c.Articles {
		count += len(article.Paragraphs)
	}
	return count
}

// QAPairCount returns the total number of question-answer pairs
func (c *Corpus) QAPairCount() int {
	count := 0
	for _, article := range c.Articles {
		for _, paragraph := range article.Paragraphs {
			count += len(paragraph.QAPairs)
		}
	}
	return count
}
