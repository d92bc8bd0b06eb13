package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// FormatError reports a malformed input corpus. It is fatal: the caller
// aborts the run instead of guessing at the intended shape.
type FormatError struct {
	File string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("malformed corpus %s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("malformed corpus: %s", e.Msg)
}

// Wire-format shapes. Pointer fields distinguish a missing key from a
// present-but-empty value so shape validation can fail fast.
type wireCorpus struct {
	Version *string       `json:"version"`
	Data    []wireArticle `json:"data"`
}

type wireArticle struct {
	Title      *string         `json:"title"`
	Paragraphs []wireParagraph `json:"paragraphs"`
}

type wireParagraph struct {
	Context *string  `json:"context"`
	Qas     []wireQA `json:"qas"`
}

type wireQA struct {
	ID           string       `json:"id,omitempty"`
	Question     *string      `json:"question"`
	Answers      []wireAnswer `json:"answers"`
	IsImpossible bool         `json:"is_impossible,omitempty"`
}

type wireAnswer struct {
	Text        *string `json:"text"`
	AnswerStart *int    `json:"answer_start"`
}

// ParseCorpus decodes a serialized corpus, validating shape as it goes.
// The name parameter identifies the source (usually a file path) in error
// messages. Fields beyond the modeled subset are dropped.
func ParseCorpus(data []byte, name string) (*Corpus, error) {
	var wire wireCorpus
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&wire); err != nil {
		return nil, &FormatError{File: name, Msg: err.Error()}
	}

	if wire.Data == nil {
		return nil, &FormatError{File: name, Msg: "missing required key: data"}
	}

	version := ""
	if wire.Version != nil {
		version = *wire.Version
	}

	corpus := &Corpus{
		Version:  version,
		Articles: make([]Article, 0, len(wire.Data)),
	}

	for ai, wa := range wire.Data {
		title := ""
		if wa.Title != nil {
			title = *wa.Title
		}

		article := Article{
			Title:      title,
			Paragraphs: make([]Paragraph, 0, len(wa.Paragraphs)),
		}

		for pi, wp := range wa.Paragraphs {
			if wp.Context == nil {
				return nil, &FormatError{File: name, Msg: fmt.Sprintf("article %d paragraph %d: missing required key: context", ai, pi)}
			}
			if wp.Qas == nil {
				return nil, &FormatError{File: name, Msg: fmt.Sprintf("article %d paragraph %d: missing required key: qas", ai, pi)}
			}

			paragraph := Paragraph{
				Context: *wp.Context,
				QAPairs: make([]QAPair, 0, len(wp.Qas)),
			}

			for qi, wq := range wp.Qas {
				if wq.Question == nil {
					return nil, &FormatError{File: name, Msg: fmt.Sprintf("article %d paragraph %d qa %d: missing required key: question", ai, pi, qi)}
				}

				pair := QAPair{
					ID:           wq.ID,
					Question:     *wq.Question,
					IsImpossible: wq.IsImpossible,
				}

				// Only the first answer anchors perturbation; the rest
				// are dropped.
				if len(wq.Answers) > 0 {
					first := wq.Answers[0]
					if first.Text == nil || first.AnswerStart == nil {
						return nil, &FormatError{File: name, Msg: fmt.Sprintf("article %d paragraph %d qa %d: answer missing text or answer_start", ai, pi, qi)}
					}
					pair.Answer = &Answer{
						Text:  *first.Text,
						Start: *first.AnswerStart,
					}
				}

				paragraph.QAPairs = append(paragraph.QAPairs, pair)
			}

			article.Paragraphs = append(article.Paragraphs, paragraph)
		}

		corpus.Articles = append(corpus.Articles, article)
	}

	return corpus, nil
}

// MarshalCorpus serializes a corpus back to the wire format. The version
// field is always written as OutputVersion, never copied from the input.
func MarshalCorpus(c *Corpus) ([]byte, error) {
	wire := wireCorpus{
		Version: strPtr(OutputVersion),
		Data:    make([]wireArticle, 0, len(c.Articles)),
	}

	for _, article := range c.Articles {
		wa := wireArticle{
			Title:      strPtr(article.Title),
			Paragraphs: make([]wireParagraph, 0, len(article.Paragraphs)),
		}

		for _, paragraph := range article.Paragraphs {
			wp := wireParagraph{
				Context: strPtr(paragraph.Context),
				Qas:     make([]wireQA, 0, len(paragraph.QAPairs)),
			}

			for _, pair := range paragraph.QAPairs {
				wq := wireQA{
					ID:           pair.ID,
					Question:     strPtr(pair.Question),
					Answers:      []wireAnswer{},
					IsImpossible: pair.IsImpossible,
				}
				if pair.Answer != nil {
					wq.Answers = append(wq.Answers, wireAnswer{
						Text:        strPtr(pair.Answer.Text),
						AnswerStart: intPtr(pair.Answer.Start),
					})
				}
				wp.Qas = append(wp.Qas, wq)
			}

			wa.Paragraphs = append(wa.Paragraphs, wp)
		}

		wire.Data = append(wire.Data, wa)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(wire); err != nil {
		return nil, fmt.Errorf("marshal corpus: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadCorpus reads and parses a corpus file
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return ParseCorpus(data, path)
}

// SaveCorpus serializes a corpus and writes it to a file
func SaveCorpus(c *Corpus, path string) error {
	data, err := MarshalCorpus(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
