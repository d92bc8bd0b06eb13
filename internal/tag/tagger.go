// Package tag provides coarse part-of-speech tagging for key-word
// extraction. The built-in tagger is a lightweight heuristic: closed-class
// word lists catch function words, suffix rules catch the rest. It only has
// to separate content words (nouns, verbs, adjectives) from everything
// else, not produce linguistically perfect tags.
package tag

import (
	"strings"
	"unicode"
)

// POS is a coarse part-of-speech class
type POS string

const (
	POSNoun  POS = "NOUN"
	POSVerb  POS = "VERB"
	POSAdj   POS = "ADJ"
	POSOther POS = "OTHER"
	POSPunct POS = "PUNCT"
)

// Token is a tagged token
type Token struct {
	Text string
	POS  POS
}

// IsContentWord reports whether the token is a noun, verb, or adjective
func (t Token) IsContentWord() bool {
	return t.POS == POSNoun || t.POS == POSVerb || t.POS == POSAdj
}

// Tagger tokenizes a sentence and assigns a coarse tag to each token
type Tagger interface {
	Tag(sentence string) []Token
}

// HeuristicTagger tags English text with closed-class word lists and
// suffix rules
type HeuristicTagger struct {
	functionWords map[string]bool
	commonVerbs   map[string]bool
}

// NewHeuristicTagger creates a tagger with the built-in word lists
func NewHeuristicTagger() *HeuristicTagger {
	return &HeuristicTagger{
		functionWords: makeWordSet(
			// determiners, conjunctions, prepositions, pronouns
			"a", "an", "the", "this", "that", "these", "those",
			"and", "or", "but", "nor", "so", "yet", "if", "because",
			"of", "in", "on", "at", "to", "for", "with", "by", "from",
			"about", "as", "into", "through", "during", "before", "after",
			"above", "below", "between", "under", "over", "up", "down",
			"i", "you", "he", "she", "it", "we", "they", "them", "him",
			"her", "his", "its", "their", "our", "your", "my", "me", "us",
			"who", "whom", "whose", "which", "what", "when", "where",
			"why", "how", "there", "here", "not", "no", "than", "then",
			"very", "too", "also", "just", "only", "both", "each",
			"any", "all", "some", "such", "own", "same", "other",
			// auxiliaries and copulas carry no lexical content
			"is", "are", "was", "were", "be", "been", "being", "am",
			"do", "does", "did", "have", "has", "had",
			"can", "could", "will", "would", "shall", "should",
			"may", "might", "must",
		),
		commonVerbs: makeWordSet(
			"make", "made", "get", "got", "go", "went", "gone",
			"come", "came", "take", "took", "say", "said", "see",
			"saw", "know", "knew", "think", "thought", "use", "used",
			"call", "called", "become", "became", "happen", "happened",
			"occur", "occurred", "win", "won", "write", "wrote",
			"build", "built", "found", "begin", "began",
		),
	}
}

// Tag tokenizes the sentence on whitespace and punctuation boundaries
// and tags each token
func (t *HeuristicTagger) Tag(sentence string) []Token {
	var tokens []Token
	for _, raw := range tokenize(sentence) {
		tokens = append(tokens, Token{Text: raw, POS: t.classify(raw)})
	}
	return tokens
}

func (t *HeuristicTagger) classify(token string) POS {
	if isPunct(token) {
		return POSPunct
	}

	lower := strings.ToLower(token)

	if t.functionWords[lower] {
		return POSOther
	}
	if t.commonVerbs[lower] {
		return POSVerb
	}

	// Suffix rules, longest first
	switch {
	case hasAnySuffix(lower, "ful", "ous", "ive", "able", "ible", "al", "ic", "ish", "less", "est"):
		return POSAdj
	case hasAnySuffix(lower, "ize", "ise", "ify", "ate"):
		return POSVerb
	case hasAnySuffix(lower, "ing", "ed"):
		// Participles double as modifiers; either way they are content words
		return POSVerb
	case hasAnySuffix(lower, "tion", "sion", "ment", "ness", "ity", "ism", "ist", "ance", "ence", "ship", "hood", "er", "or"):
		return POSNoun
	case hasAnySuffix(lower, "ly"):
		return POSOther
	}

	// Capitalized mid-sentence tokens and bare words default to noun:
	// in questions most untagged content words are the entities asked about
	return POSNoun
}

// tokenize splits a sentence into word and punctuation tokens
func tokenize(sentence string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range sentence {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// Keep intra-word apostrophes and hyphens together
			if (r == '\'' || r == '-') && current.Len() > 0 {
				current.WriteRune(r)
				continue
			}
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func isPunct(token string) bool {
	for _, r := range token {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(token) > 0
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		// Require a stem of at least two characters so short function
		// words do not trip suffix rules
		if len(s) >= len(suffix)+2 && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func makeWordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
