package perturb

import (
	"errors"
	"math/rand"
	"strings"
)

// AddAny appends N topically generic sentences to the context, chosen
// uniformly at random with replacement. The sentences are deliberately
// unrelated to the paragraph: the attack tests robustness to irrelevant
// noise, nothing more.
type AddAny struct {
	pool      []string
	sentences int
}

// NewAddAny creates the strategy. A nil or empty pool falls back to the
// built-in distractor pool; sentences <= 0 falls back to the default of 2.
func NewAddAny(pool []string, sentences int) *AddAny {
	if len(pool) == 0 {
		pool = defaultPool
	}
	if sentences <= 0 {
		sentences = 2
	}
	return &AddAny{pool: pool, sentences: sentences}
}

// Name returns the attack name
func (a *AddAny) Name() string { return "addany" }

// AppendOnly reports that this strategy only appends
func (a *AddAny) AppendOnly() bool { return true }

// Perturb appends the chosen sentences, space-separated, after the context
func (a *AddAny) Perturb(context string, qas []QA, rng *rand.Rand) (string, error) {
	if len(a.pool) == 0 {
		return "", errors.New("empty distractor pool")
	}

	var sb strings.Builder
	sb.WriteString(context)
	for i := 0; i < a.sentences; i++ {
		sb.WriteString(" ")
		sb.WriteString(a.pool[rng.Intn(len(a.pool))])
	}
	return sb.String(), nil
}

// defaultPool is the built-in set of topically generic distractor
// sentences. The pool command can harvest a replacement pool from any web
// page; this one exists so the strategy works out of the box.
var defaultPool = []string{
	"The weather that day was mild with a light breeze from the west.",
	"Many people enjoy taking long walks in the early morning.",
	"The committee meets on the second Tuesday of every month.",
	"A fresh coat of paint can change the feel of an entire room.",
	"Local markets often sell seasonal fruit at reasonable prices.",
	"The train departed from the central station exactly on schedule.",
	"Gardening remains a popular hobby among people of all ages.",
	"The library extended its opening hours during the summer.",
	"Several new restaurants opened downtown over the past year.",
	"Cyclists are advised to wear helmets on busy roads.",
	"The museum's gift shop closes half an hour before the museum itself.",
	"Annual rainfall in the region varies considerably from year to year.",
	"The orchestra rehearses twice a week in the community hall.",
	"Fresh bread is usually baked in the early hours of the morning.",
	"The ferry service runs less frequently during the winter months.",
	"Many households keep a small toolbox for minor repairs.",
	"The festival attracts visitors from neighboring towns each spring.",
	"Office workers often take their lunch break around noon.",
	"The hiking trail is well marked and suitable for beginners.",
	"Public parks tend to be busiest on weekend afternoons.",
}
