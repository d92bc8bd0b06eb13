package tag

import "testing"

func TestHeuristicTagger_ContentWords(t *testing.T) {
	tagger := NewHeuristicTagger()

	tokens := tagger.Tag("What color is the sky?")

	content := contentWords(tokens)
	if len(content) != 2 {
		t.Fatalf("Expected 2 content words, got %d: %v", len(content), content)
	}
	if content[0] != "color" || content[1] != "sky" {
		t.Errorf("Expected [color sky], got %v", content)
	}
}

func TestHeuristicTagger_Punctuation(t *testing.T) {
	tagger := NewHeuristicTagger()

	tokens := tagger.Tag("Who invented the telephone?")

	foundQuestion := false
	for _, token := range tokens {
		if token.Text == "?" {
			foundQuestion = true
			if token.POS != POSPunct {
				t.Errorf("Expected ? tagged PUNCT, got %s", token.POS)
			}
		}
	}
	if !foundQuestion {
		t.Error("Expected ? to be its own token")
	}
}

func TestHeuristicTagger_SuffixRules(t *testing.T) {
	tagger := NewHeuristicTagger()

	tests := []struct {
		word string
		want POS
	}{
		{"beautiful", POSAdj},
		{"famous", POSAdj},
		{"invented", POSVerb},
		{"running", POSVerb},
		{"government", POSNoun},
		{"happiness", POSNoun},
		{"telephone", POSNoun},
		{"quickly", POSOther},
		{"the", POSOther},
		{"was", POSOther},
		{"wrote", POSVerb},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			tokens := tagger.Tag(tt.word)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}
			if tokens[0].POS != tt.want {
				t.Errorf("Expected %s tagged %s, got %s", tt.word, tt.want, tokens[0].POS)
			}
		})
	}
}

func TestHeuristicTagger_Contractions(t *testing.T) {
	tagger := NewHeuristicTagger()

	tokens := tagger.Tag("What's the city's name?")

	for _, token := range tokens {
		if token.Text == "What's" || token.Text == "city's" {
			return
		}
	}
	t.Errorf("Expected apostrophes kept inside tokens, got %v", tokens)
}

func contentWords(tokens []Token) []string {
	var words []string
	for _, token := range tokens {
		if token.IsContentWord() {
			words = append(words, token.Text)
		}
	}
	return words
}
