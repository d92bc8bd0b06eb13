// Package extract pulls candidate distractor sentences out of HTML
// documents. The sentences feed the AddAny strategy's pool; they only
// need to be well-formed and self-contained, their topic is irrelevant
// by construction.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Sentence length bounds. Fragments shorter than the minimum are mostly
// navigation debris; anything over the maximum is unlikely to be a single
// sentence.
const (
	minSentenceLen = 30
	maxSentenceLen = 500
)

// SentenceExtractor extracts distractor candidates from HTML
type SentenceExtractor struct{}

// NewSentenceExtractor creates a new sentence extractor
func NewSentenceExtractor() *SentenceExtractor {
	return &SentenceExtractor{}
}

// Extract parses the HTML, walks its visible text, and returns the
// deduplicated sentences found
func (e *SentenceExtractor) Extract(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	text := visibleText(doc)
	return dedupe(splitSentences(text)), nil
}

// visibleText extracts text nodes, skipping script/style subtrees
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// splitSentences splits text on sentence terminators followed by
// whitespace, keeping only plausibly sentence-sized pieces
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	keep := func(s string) {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen && len(s) <= maxSentenceLen {
			sentences = append(sentences, s)
		}
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Split only before whitespace, so abbreviations and
			// decimals survive
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				keep(current.String())
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		keep(current.String())
	}

	return sentences
}

func dedupe(sentences []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, sentence := range sentences {
		key := strings.ToLower(strings.TrimSpace(sentence))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, sentence)
		}
	}

	return unique
}
