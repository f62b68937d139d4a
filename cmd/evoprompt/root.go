package main

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evoprompt/pkg/config"
	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/evolve"
	"github.com/XiaoConstantine/evoprompt/pkg/llms"
	"github.com/XiaoConstantine/evoprompt/pkg/logging"
	"github.com/XiaoConstantine/evoprompt/pkg/mutation"
	"github.com/XiaoConstantine/evoprompt/pkg/storage"
)

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var cfgFile string

	root := &cobra.Command{
		Use:   "evoprompt",
		Short: "Evolutionary generator and selector for problem statements",
		Long: `evoprompt loads seed problem statements, then repeatedly mutates random
samples of the population through a text-generation backend, scores every
variant with heuristic quality metrics, and retains the top-K across rounds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "optional YAML config file")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flags.StringVar(&cfg.Model, "model", cfg.Model, "generation model identifier")
	flags.IntVar(&cfg.NumRounds, "num-rounds", cfg.NumRounds, "number of rounds to run")
	flags.IntVar(&cfg.SampleSize, "sample-size", cfg.SampleSize, "variants mutated per round")
	flags.IntVar(&cfg.TopK, "top-k", cfg.TopK, "variants retained per round")
	flags.BoolVar(&cfg.MutateOnStart, "mutate-on-start", cfg.MutateOnStart, "run one mutation pass before round 1")
	flags.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "backend API key")
	flags.StringVar(&cfg.SeedFile, "seed-file", cfg.SeedFile, "newline-delimited seed problems file")
	flags.StringVar(&cfg.TemplateDir, "template-dir", cfg.TemplateDir, "directory of mutation prompt templates")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory variants are saved to")
	flags.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "per-round leaderboard file")
	flags.StringVar(&cfg.IndexPath, "index", cfg.IndexPath, "SQLite lineage index (empty disables)")
	flags.StringVar(&cfg.LogPath, "log-file", cfg.LogPath, "log file (empty for console only)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR")

	// Flags already bind directly into cfg; the file and environment are
	// overlaid first so flags win only when set.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		resolved := config.Default()
		if cfgFile != "" {
			if err := resolved.LoadFile(cfgFile); err != nil {
				return err
			}
		}
		if err := resolved.LoadEnv(); err != nil {
			return err
		}
		applyChangedFlags(cmd, cfg, resolved)
		*cfg = *resolved

		return setupLogging(cfg)
	}

	root.AddCommand(newRunCmd(cfg))
	root.AddCommand(newHistoryCmd(cfg))
	root.AddCommand(newLineageCmd(cfg))

	return root
}

// applyChangedFlags copies flag-set values from src over dst, so explicit
// flags override file and environment values.
func applyChangedFlags(cmd *cobra.Command, src, dst *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("seed", func() { dst.Seed = src.Seed })
	set("model", func() { dst.Model = src.Model })
	set("num-rounds", func() { dst.NumRounds = src.NumRounds })
	set("sample-size", func() { dst.SampleSize = src.SampleSize })
	set("top-k", func() { dst.TopK = src.TopK })
	set("mutate-on-start", func() { dst.MutateOnStart = src.MutateOnStart })
	set("api-key", func() { dst.APIKey = src.APIKey })
	set("seed-file", func() { dst.SeedFile = src.SeedFile })
	set("template-dir", func() { dst.TemplateDir = src.TemplateDir })
	set("output-dir", func() { dst.OutputDir = src.OutputDir })
	set("snapshot", func() { dst.SnapshotPath = src.SnapshotPath })
	set("index", func() { dst.IndexPath = src.IndexPath })
	set("log-file", func() { dst.LogPath = src.LogPath })
	set("log-level", func() { dst.LogLevel = src.LogLevel })
}

func setupLogging(cfg *config.Config) error {
	outputs := []logging.Output{logging.NewConsoleOutput(true)}
	if cfg.LogPath != "" {
		fileOut, err := logging.NewFileOutput(cfg.LogPath)
		if err != nil {
			return err
		}
		outputs = append(outputs, fileOut)
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.LogLevel),
		Outputs:  outputs,
	}))
	return nil
}

// buildBackend assembles the LLM with rate limiting and retries layered on.
func buildBackend(cfg *config.Config) (core.LLM, error) {
	llm, err := llms.NewLLM(cfg.APIKey, core.ModelID(cfg.Model))
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond > 0 {
		llm = llms.NewRateLimitedLLM(llm, cfg.RequestsPerSecond, 1)
	}
	if cfg.MaxRetries > 0 {
		llm = llms.NewRetryLLM(llm, llms.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay,
			Backoff:    cfg.RetryBackoff,
		})
	}
	return llm, nil
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured number of evolution rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := logging.WithModelID(cmd.Context(), cfg.Model)
			logger := logging.GetLogger()

			llm, err := buildBackend(cfg)
			if err != nil {
				return err
			}

			store, err := storage.NewStore(cfg.OutputDir)
			if err != nil {
				return err
			}

			var index *storage.Index
			if cfg.IndexPath != "" {
				index, err = storage.OpenIndex(cfg.IndexPath)
				if err != nil {
					return err
				}
				defer index.Close()
			}

			mutator := mutation.NewMutator(llm, mutation.NewTemplateStore(cfg.TemplateDir))
			engine, err := evolve.NewEngine(mutator, store, evolve.Options{
				SampleSize: cfg.SampleSize,
				TopK:       cfg.TopK,
				RNG:        rand.New(rand.NewSource(cfg.Seed)),
				Index:      index,
			})
			if err != nil {
				return err
			}

			seeds, err := storage.LoadSeeds(cfg.SeedFile)
			if err != nil {
				return err
			}
			logger.Info(ctx, "Loaded %d seed problems from %s", len(seeds), cfg.SeedFile)

			started := time.Now()
			runner := evolve.NewRunner(engine, cfg.NumRounds, cfg.MutateOnStart, cfg.SnapshotPath)
			final, err := runner.Run(ctx, seeds)
			if err != nil {
				return err
			}

			logger.Info(ctx, "Run completed in %s with %d surviving variants",
				time.Since(started).Round(time.Millisecond), len(final))
			for i, v := range final {
				cmd.Printf("%2d. %.4f  %s\n", i+1, v.Score(), v.ID)
			}
			return nil
		},
	}
}

func openConfiguredIndex(cfg *config.Config) (*storage.Index, error) {
	if cfg.IndexPath == "" {
		return nil, errors.New(errors.ConfigurationFailed, "no lineage index configured; pass --index")
	}
	return storage.OpenIndex(cfg.IndexPath)
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the highest-scoring variants recorded in the lineage index",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := openConfiguredIndex(cfg)
			if err != nil {
				return err
			}
			defer index.Close()

			rows, err := index.Top(limit)
			if err != nil {
				return err
			}
			for i, row := range rows {
				cmd.Printf("%2d. %.4f  round=%d  %s  %v\n", i+1, row.Score, row.Round, row.ID, row.Mutations)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of variants to show")
	return cmd
}

func newLineageCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <variant-id>",
		Short: "Trace a variant's ancestry back to its seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := openConfiguredIndex(cfg)
			if err != nil {
				return err
			}
			defer index.Close()

			chain, err := index.Lineage(args[0])
			if err != nil {
				return err
			}
			for _, row := range chain {
				cmd.Printf("%.4f  round=%d  %s  %v\n", row.Score, row.Round, row.ID, row.Mutations)
			}
			return nil
		},
	}
}
