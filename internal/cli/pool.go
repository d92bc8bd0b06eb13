package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/kvasnov/perturbia/internal/model"
	"github.com/kvasnov/perturbia/internal/perturb"
	"github.com/kvasnov/perturbia/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	poolOut      string
	poolTimeout  time.Duration
	poolUA       string
	poolMaxBytes int64
)

// poolCmd represents the pool command
var poolCmd = &cobra.Command{
	Use:   "pool <url> [url...]",
	Short: "Harvest distractor sentences from web pages",
	Long: `Pool fetches the given pages, extracts their visible text, splits it
into sentences, and writes a distractor pool file for the addany
attack. Pages are checked against robots.txt and fetched at most once
per second per host.

Example:
  perturbia pool https://en.wikipedia.org/wiki/Weather --out distractors.txt
  perturbia pool https://example.com/a https://example.com/b --out pool.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPool,
}

func init() {
	rootCmd.AddCommand(poolCmd)

	poolCmd.Flags().StringVar(&poolOut, "out", "pool.txt", "output pool file, one sentence per line")
	poolCmd.Flags().DurationVar(&poolTimeout, "timeout", 2*time.Minute, "overall harvest timeout")
	poolCmd.Flags().StringVar(&poolUA, "ua", "Perturbia/0.1 (+https://github.com/kvasnov/perturbia)", "HTTP User-Agent")
	poolCmd.Flags().Int64Var(&poolMaxBytes, "max-bytes", 2_000_000, "max response bytes to read per page")
}

func runPool(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), poolTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.HTTP.UserAgent = poolUA
	cfg.HTTP.MaxBodyBytes = poolMaxBytes

	harvester := pipeline.NewHarvester(cfg.HTTP)
	sentences, err := harvester.Harvest(ctx, args)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	if err := perturb.SavePool(sentences, poolOut); err != nil {
		return fmt.Errorf("save pool: %w", err)
	}

	fmt.Printf("Wrote %d sentence(s) from %d page(s) to %s\n", len(sentences), len(args), poolOut)
	return nil
}
