package perturb

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kvasnov/perturbia/internal/tag"
)

// ErrNoKeyWords means a question tokenized to nothing usable even after
// the all-tokens fallback. The naive approach indexes into an empty slice
// here; failing loudly is the guard against that.
var ErrNoKeyWords = errors.New("question yields no key words")

// AddSent appends one misleading sentence built from a randomly chosen
// question of the paragraph. The sentence shares vocabulary with the
// question but asserts nothing, which makes it harder for a model to
// dismiss than AddAny's unrelated noise: it tests whether the model can
// tell lexical overlap from actual relevance.
type AddSent struct {
	tagger tag.Tagger
}

// NewAddSent creates the strategy with the built-in heuristic tagger
func NewAddSent() *AddSent {
	return &AddSent{tagger: tag.NewHeuristicTagger()}
}

// NewAddSentWithTagger creates the strategy with a custom tagger
func NewAddSentWithTagger(t tag.Tagger) *AddSent {
	return &AddSent{tagger: t}
}

// Name returns the attack name
func (a *AddSent) Name() string { return "addsent" }

// AppendOnly reports that this strategy only appends
func (a *AddSent) AppendOnly() bool { return true }

// Perturb picks one QA pair uniformly at random, extracts key words from
// its question, and appends a single templated sentence that negates
// relevance.
func (a *AddSent) Perturb(context string, qas []QA, rng *rand.Rand) (string, error) {
	if len(qas) == 0 {
		// Nothing to build a misleading sentence from; leave the
		// paragraph untouched.
		return context, nil
	}

	chosen := qas[rng.Intn(len(qas))]

	keyWords, err := a.keyWords(chosen.Question)
	if err != nil {
		return "", fmt.Errorf("question %q: %w", chosen.Question, err)
	}

	keyWord := keyWords[rng.Intn(len(keyWords))]

	var sentence string
	if chosen.Answer != "" {
		sentence = fmt.Sprintf("However, %s is not related to %s.", keyWord, chosen.Answer)
	} else {
		sentence = fmt.Sprintf("However, %s is not relevant to this context.", keyWord)
	}

	return context + " " + sentence, nil
}

// keyWords extracts the question's content words (nouns, verbs,
// adjectives), falling back to all non-punctuation tokens when the
// question has none.
func (a *AddSent) keyWords(question string) ([]string, error) {
	tokens := a.tagger.Tag(question)

	var words []string
	for _, token := range tokens {
		if token.IsContentWord() {
			words = append(words, token.Text)
		}
	}
	if len(words) > 0 {
		return words, nil
	}

	// Fallback: every non-punctuation token
	for _, token := range tokens {
		if token.POS != tag.POSPunct {
			words = append(words, token.Text)
		}
	}
	if len(words) > 0 {
		return words, nil
	}

	return nil, ErrNoKeyWords
}
