// Package perturb implements the adversarial paragraph transformations.
// Each strategy maps a paragraph to a new context string; offset
// recomputation for the paragraph's answers is the span package's job.
package perturb

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Strategy is an interchangeable paragraph perturbation. Perturb returns
// the new context for the paragraph; all of the paragraph's QA pairs share
// it. Strategies must be deterministic given the rng: no other source of
// randomness is allowed, or parallel transformation stops being
// reproducible.
type Strategy interface {
	// Name returns the attack name used in reports and output filenames
	Name() string

	// Perturb produces the perturbed context for a paragraph
	Perturb(context string, qas []QA, rng *rand.Rand) (string, error)

	// AppendOnly reports whether the strategy only ever appends to the
	// context. For append-only strategies the relocator's
	// first-occurrence rule is provably correct; anything else is a
	// flagged correctness risk and relies on the post-hoc span check.
	AppendOnly() bool
}

// QA is the slice of a QA pair a strategy is allowed to see: the question
// and the answer text (empty for impossible questions). Strategies never
// touch offsets.
type QA struct {
	Question string
	Answer   string
}

// Registry maps attack names to strategies
type Registry struct {
	strategies map[string]Strategy
	names      []string
}

// NewRegistry creates a registry with the built-in strategies registered
func NewRegistry(pool []string, sentences int) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	r.Register(NewAddAny(pool, sentences))
	r.Register(NewAddSent())
	return r
}

// Register adds a strategy to the registry
func (r *Registry) Register(s Strategy) {
	if _, exists := r.strategies[s.Name()]; !exists {
		r.names = append(r.names, s.Name())
	}
	r.strategies[s.Name()] = s
}

// Lookup finds a strategy by attack name
func (r *Registry) Lookup(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown attack: %s (supported: %v)", name, r.names)
	}
	return s, nil
}

// Names returns the registered attack names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// ParagraphRNG derives a deterministic random source for one paragraph
// from the base seed and the paragraph's position. Seeding per paragraph
// instead of sharing one generator keeps output byte-identical whether
// paragraphs are processed sequentially or in parallel.
func ParagraphRNG(baseSeed int64, articleIdx, paragraphIdx int) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%d", baseSeed, articleIdx, paragraphIdx)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
