package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kvasnov/perturbia/internal/cache"
	"github.com/kvasnov/perturbia/internal/evaluate"
	"github.com/kvasnov/perturbia/internal/grammar"
	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/predict"
	"github.com/spf13/cobra"
)

var (
	attackNames     string
	provider        string
	modelName       string
	baseURL         string
	rateLimit       float64
	evalTimeout     time.Duration
	noCache         bool
	cacheDir        string
	grammarEndpoint string
	noGrammar       bool
	rowsOut         string
	summaryOut      string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <corpus.json> [corpus.json...]",
	Short: "Evaluate a QA model against one or more corpora",
	Long: `Evaluate runs a black-box QA model over each corpus and scores its
predictions with exact match, token F1, sentence BLEU, and a
grammatical-error count from a LanguageTool server.

Each corpus is reported under an attack name, derived from its
filename unless --attack-names overrides it. Questions whose answer
does not occur near the start of the context are skipped.

Example:
  perturbia evaluate dev-v2.0.json dev-v2.0-addany.json
  perturbia evaluate dev-v2.0-addsent.json --attack-names addsent --model gpt-4o
  perturbia evaluate perturbed.json --provider local --base-url http://localhost:5000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&attackNames, "attack-names", "", "comma-separated attack names, one per corpus (default: filename stems)")
	evaluateCmd.Flags().StringVar(&provider, "provider", "openai", "prediction provider (openai, local)")
	evaluateCmd.Flags().StringVar(&modelName, "model", "gpt-4o-mini", "model name")
	evaluateCmd.Flags().StringVar(&baseURL, "base-url", "", "override provider base URL")
	evaluateCmd.Flags().Float64Var(&rateLimit, "rate-limit", 2, "prediction requests per second (0 = unlimited)")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 30*time.Minute, "overall evaluation timeout")
	evaluateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable prediction caching")
	evaluateCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "prediction cache directory (default: $HOME/.perturbia/cache)")
	evaluateCmd.Flags().StringVar(&grammarEndpoint, "grammar-endpoint", "http://localhost:8010/v2/check", "LanguageTool check endpoint")
	evaluateCmd.Flags().BoolVar(&noGrammar, "no-grammar", false, "skip grammatical-error counting (reports 0)")
	evaluateCmd.Flags().StringVar(&rowsOut, "out", "evaluation.csv", "per-question results CSV path")
	evaluateCmd.Flags().StringVar(&summaryOut, "summary", "summary.csv", "per-attack summary CSV path")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	names, err := resolveAttackNames(args, attackNames)
	if err != nil {
		return err
	}

	cfg := model.DefaultConfig()
	cfg.Predictor.Provider = provider
	cfg.Predictor.Model = modelName
	cfg.Predictor.BaseURL = baseURL
	cfg.Predictor.RateLimit = rateLimit
	cfg.Cache.Enabled = !noCache
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	cfg.Grammar.Endpoint = grammarEndpoint

	if provider == "openai" {
		cfg.Predictor.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Predictor.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	predictor, err := predict.New(cfg.Predictor)
	if err != nil {
		return err
	}

	var cached *predict.Cached
	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		cached = predict.NewCached(predictor, store, cfg.Cache.TTL)
		predictor = cached
	}

	var estimator grammar.Estimator
	if noGrammar {
		estimator = grammar.Disabled{}
	} else {
		estimator = grammar.NewLanguageTool(cfg.Grammar)
	}

	evaluator := evaluate.NewEvaluator(predictor, estimator)
	if verbose {
		evaluator.OnProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rEvaluating: %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		})
	}

	var allRows []model.EvaluationRow
	for i, path := range args {
		corpus, err := model.LoadCorpus(path)
		if err != nil {
			return err
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Corpus %s as attack %q (%d questions)\n",
				path, names[i], corpus.QAPairCount())
		}

		rows, err := evaluator.Evaluate(ctx, corpus, names[i])
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", path, err)
		}
		allRows = append(allRows, rows...)
	}

	if err := evaluate.WriteRowsCSV(allRows, rowsOut); err != nil {
		return err
	}
	summaries := evaluate.Summarize(allRows)
	if err := evaluate.WriteSummaryCSV(summaries, summaryOut); err != nil {
		return err
	}

	if verbose && cached != nil {
		hits, misses := cached.Stats()
		fmt.Fprintf(os.Stderr, "Prediction cache: %d hits, %d misses\n", hits, misses)
	}

	for _, s := range summaries {
		fmt.Printf("%-12s em=%.3f f1=%.3f bleu=%.3f errors=%.2f n=%d\n",
			s.Attack, s.MeanExactMatch, s.MeanF1, s.MeanBLEU, s.MeanGrammar, s.SampleSize)
	}
	fmt.Printf("Wrote %s and %s\n", rowsOut, summaryOut)

	return nil
}

// resolveAttackNames pairs each corpus file with an attack name. With no
// override, a file like dev-v2.0-addany.json reports as "dev-v2.0-addany".
func resolveAttackNames(paths []string, override string) ([]string, error) {
	if override == "" {
		names := make([]string, len(paths))
		for i, p := range paths {
			base := filepath.Base(p)
			names[i] = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return names, nil
	}

	names := strings.Split(override, ",")
	if len(names) != len(paths) {
		return nil, fmt.Errorf("--attack-names lists %d name(s) for %d corpus file(s)", len(names), len(paths))
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
		if names[i] == "" {
			return nil, fmt.Errorf("--attack-names contains an empty name")
		}
	}
	return names, nil
}
