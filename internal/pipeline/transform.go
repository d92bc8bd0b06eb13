package pipeline

import (
	"fmt"

	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/perturb"
	"github.com/kvasnov/perturbia/internal/span"
	"github.com/kvasnov/perturbia/internal/worker"
)

// ProgressFunc receives a notification after each processed paragraph.
// It is an injected observer (typically a progress line on stderr), not
// part of the transformation contract.
type ProgressFunc func(done, total int)

// Transformer applies one perturbation strategy across a whole corpus
type Transformer struct {
	strategy perturb.Strategy
	seed     int64
	workers  int
	progress ProgressFunc
}

// NewTransformer creates a transformer. workers <= 1 selects the
// sequential reference behavior; higher values transform paragraphs in
// parallel with output reassembled in input order.
func NewTransformer(strategy perturb.Strategy, seed int64, workers int) *Transformer {
	if workers <= 0 {
		workers = 1
	}
	return &Transformer{
		strategy: strategy,
		seed:     seed,
		workers:  workers,
	}
}

// OnProgress installs a progress observer
func (t *Transformer) OnProgress(fn ProgressFunc) {
	t.progress = fn
}

// Transform builds a new corpus in which every paragraph has been
// perturbed. The input corpus is never mutated, so regenerating a
// different attack variant from the same source is always safe. Articles
// and paragraphs map 1:1; only contexts and answer offsets change, and QA
// pairs whose answers can no longer be located are dropped (counted in
// the stats, never an error).
func (t *Transformer) Transform(corpus *model.Corpus) (*model.Corpus, model.TransformStats, error) {
	out := &model.Corpus{
		Version:  model.OutputVersion,
		Articles: make([]model.Article, len(corpus.Articles)),
	}

	stats := model.TransformStats{
		Paragraphs: corpus.ParagraphCount(),
		QAPairs:    corpus.QAPairCount(),
	}

	if t.workers > 1 {
		return t.transformParallel(corpus, out, stats)
	}

	done := 0
	for ai, article := range corpus.Articles {
		out.Articles[ai] = model.Article{
			Title:      article.Title,
			Paragraphs: make([]model.Paragraph, len(article.Paragraphs)),
		}

		for pi, paragraph := range article.Paragraphs {
			result, err := t.transformParagraph(paragraph, ai, pi)
			if err != nil {
				return nil, stats, fmt.Errorf("article %d paragraph %d: %w", ai, pi, err)
			}
			out.Articles[ai].Paragraphs[pi] = result.paragraph
			stats.Dropped += result.dropped

			done++
			if t.progress != nil {
				t.progress(done, stats.Paragraphs)
			}
		}
	}

	return out, stats, nil
}

type paragraphResult struct {
	paragraph model.Paragraph
	dropped   int
}

// transformParagraph perturbs one paragraph and relocates its answers.
// The rng is derived from the paragraph's position, so the result does
// not depend on processing order.
func (t *Transformer) transformParagraph(paragraph model.Paragraph, articleIdx, paragraphIdx int) (paragraphResult, error) {
	rng := perturb.ParagraphRNG(t.seed, articleIdx, paragraphIdx)

	qas := make([]perturb.QA, len(paragraph.QAPairs))
	for i, pair := range paragraph.QAPairs {
		qas[i] = perturb.QA{Question: pair.Question}
		if pair.Answer != nil {
			qas[i].Answer = pair.Answer.Text
		}
	}

	newContext, err := t.strategy.Perturb(paragraph.Context, qas, rng)
	if err != nil {
		return paragraphResult{}, fmt.Errorf("%s: %w", t.strategy.Name(), err)
	}

	result := paragraphResult{
		paragraph: model.Paragraph{
			Context: newContext,
			QAPairs: make([]model.QAPair, 0, len(paragraph.QAPairs)),
		},
	}

	for _, pair := range paragraph.QAPairs {
		if !pair.HasAnswer() {
			// Impossible questions pass through untouched
			result.paragraph.QAPairs = append(result.paragraph.QAPairs, pair)
			continue
		}

		offset, err := span.Relocate(pair.Answer, newContext)
		if err != nil {
			// The answer no longer occurs verbatim. Drop the pair
			// rather than emit an invalid offset.
			result.dropped++
			continue
		}

		relocated := pair
		relocated.Answer = &model.Answer{Text: pair.Answer.Text, Start: offset}

		// Consistency check for every strategy, append-only or not:
		// re-derive the substring and compare.
		if !span.Check(relocated.Answer, newContext) {
			result.dropped++
			continue
		}

		result.paragraph.QAPairs = append(result.paragraph.QAPairs, relocated)
	}

	return result, nil
}

// paragraphJob carries one paragraph through the worker pool
type paragraphJob struct {
	transformer  *Transformer
	paragraph    model.Paragraph
	articleIdx   int
	paragraphIdx int
}

type paragraphJobResult struct {
	articleIdx   int
	paragraphIdx int
	result       paragraphResult
	err          error
}

func (r *paragraphJobResult) GetError() error { return r.err }

func (j *paragraphJob) Execute() worker.Result {
	result, err := j.transformer.transformParagraph(j.paragraph, j.articleIdx, j.paragraphIdx)
	return &paragraphJobResult{
		articleIdx:   j.articleIdx,
		paragraphIdx: j.paragraphIdx,
		result:       result,
		err:          err,
	}
}

// transformParallel processes paragraphs on a worker pool and reassembles
// the output in input order. Safe because each job reads only its own
// paragraph and writes only its own output slot.
func (t *Transformer) transformParallel(corpus *model.Corpus, out *model.Corpus, stats model.TransformStats) (*model.Corpus, model.TransformStats, error) {
	for ai, article := range corpus.Articles {
		out.Articles[ai] = model.Article{
			Title:      article.Title,
			Paragraphs: make([]model.Paragraph, len(article.Paragraphs)),
		}
	}

	pool := worker.NewPool(t.workers)
	pool.Start()

	go func() {
		for ai, article := range corpus.Articles {
			for pi, paragraph := range article.Paragraphs {
				pool.Submit(&paragraphJob{
					transformer:  t,
					paragraph:    paragraph,
					articleIdx:   ai,
					paragraphIdx: pi,
				})
			}
		}
		pool.Close()
	}()

	done := 0
	var firstErr error
	for result := range pool.Results() {
		r := result.(*paragraphJobResult)
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("article %d paragraph %d: %w", r.articleIdx, r.paragraphIdx, r.err)
			}
			continue
		}

		out.Articles[r.articleIdx].Paragraphs[r.paragraphIdx] = r.result.paragraph
		stats.Dropped += r.result.dropped

		done++
		if t.progress != nil {
			t.progress(done, stats.Paragraphs)
		}
	}

	if firstErr != nil {
		return nil, stats, firstErr
	}

	return out, stats, nil
}
