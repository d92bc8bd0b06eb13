package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/perturb"
	"github.com/kvasnov/perturbia/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	attackName    string
	seed          int64
	sentenceCount int
	poolPath      string
	perturbOut    string
	workers       int
)

// perturbCmd represents the perturb command
var perturbCmd = &cobra.Command{
	Use:   "perturb <corpus.json>",
	Short: "Generate an adversarially perturbed corpus",
	Long: `Perturb rewrites every paragraph context in a SQuAD-format corpus
using the chosen attack strategy, recomputes every answer offset
against the new context, and writes the result as a new corpus file.

Answerable questions whose answer can no longer be located are dropped
and reported. Impossible questions pass through untouched.

Example:
  perturbia perturb dev-v2.0.json --attack addany
  perturbia perturb dev-v2.0.json --attack addsent --seed 7 --out addsent.json
  perturbia perturb dev-v2.0.json --attack addany --pool distractors.txt --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runPerturb,
}

func init() {
	rootCmd.AddCommand(perturbCmd)

	perturbCmd.Flags().StringVar(&attackName, "attack", "addany", "attack strategy (addany, addsent)")
	perturbCmd.Flags().Int64Var(&seed, "seed", 42, "base random seed")
	perturbCmd.Flags().IntVar(&sentenceCount, "sentences", 2, "distractor sentences per paragraph (addany)")
	perturbCmd.Flags().StringVar(&poolPath, "pool", "", "distractor pool file, one sentence per line (addany)")
	perturbCmd.Flags().StringVar(&perturbOut, "out", "", "output path (default: <input>-<attack>.json)")
	perturbCmd.Flags().IntVar(&workers, "workers", 1, "parallel workers (1 = sequential)")
}

func runPerturb(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	corpus, err := model.LoadCorpus(inputPath)
	if err != nil {
		return err
	}

	var pool []string
	if poolPath != "" {
		pool, err = perturb.LoadPool(poolPath)
		if err != nil {
			return fmt.Errorf("load pool: %w", err)
		}
	}

	registry := perturb.NewRegistry(pool, sentenceCount)
	strategy, err := registry.Lookup(attackName)
	if err != nil {
		return err
	}

	outPath := perturbOut
	if outPath == "" {
		outPath = defaultPerturbOut(inputPath, attackName)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Input:      %s (%d paragraphs, %d questions)\n",
			inputPath, corpus.ParagraphCount(), corpus.QAPairCount())
		fmt.Fprintf(os.Stderr, "Attack:     %s\n", attackName)
		fmt.Fprintf(os.Stderr, "Seed:       %d\n", seed)
		fmt.Fprintf(os.Stderr, "Workers:    %d\n", workers)
		fmt.Fprintln(os.Stderr)
	}

	transformer := pipeline.NewTransformer(strategy, seed, workers)
	if verbose {
		transformer.OnProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rPerturbing paragraphs: %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		})
	}

	result, stats, err := transformer.Transform(corpus)
	if err != nil {
		return fmt.Errorf("perturb: %w", err)
	}

	if err := model.SaveCorpus(result, outPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d paragraphs, %d questions", outPath, stats.Paragraphs, stats.QAPairs)
	if stats.Dropped > 0 {
		fmt.Printf(" (%d dropped, answer not locatable)", stats.Dropped)
	}
	fmt.Println()

	return nil
}

// defaultPerturbOut derives the output path from the input path and attack,
// e.g. dev-v2.0.json + addany -> dev-v2.0-addany.json
func defaultPerturbOut(inputPath, attack string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + "-" + attack + ext
}
