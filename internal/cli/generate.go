package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	"github.com/pgEdge/pgedge-retailgen/internal/db"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/output"
)

var (
	genSeed         uint64
	genOutput       string
	genLoad         bool
	genConnection   string
	genDropExisting bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <dataset>",
	Short: "Generate a dataset",
	Long: `Generate the named dataset (history or incremental) as CSV tables
under <output>/batch and order events under <output>/streaming.

With --load the generated tables are also copied into a PostgreSQL star
schema, which is created if missing.

Example:
  pgedge-retailgen generate history --seed 42 --output ./data
  pgedge-retailgen generate incremental --load --connection "postgres://..."`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"history", "incremental"},
	RunE:      runGenerate,
}

func init() {
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed, must be non-zero (default: 42)")
	generateCmd.Flags().StringVar(&genOutput, "output", "",
		"output directory (default: ./data for history, ./datav2 for incremental)")
	generateCmd.Flags().BoolVar(&genLoad, "load", false,
		"also load the generated tables into PostgreSQL")
	generateCmd.Flags().StringVar(&genConnection, "connection", "",
		"PostgreSQL connection string for --load")
	generateCmd.Flags().BoolVar(&genDropExisting, "drop-existing", false,
		"drop the existing star schema before loading")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	name := args[0]
	dataset, err := datasets.Get(name)
	if err != nil {
		return err
	}

	// Override config with CLI flags
	if cmd.Flags().Changed("seed") {
		cfg.Seed = genSeed
	}
	if genOutput != "" {
		switch name {
		case "history":
			cfg.History.OutputDir = genOutput
		case "incremental":
			cfg.Incremental.OutputDir = genOutput
		}
	}
	if genLoad {
		cfg.Load.Enabled = true
	}
	if genConnection != "" {
		cfg.Load.Connection = genConnection
	}
	if genDropExisting {
		cfg.Load.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(name); err != nil {
		return err
	}
	if cfg.Load.Enabled {
		if err := cfg.ValidateLoad(); err != nil {
			return err
		}
	}

	ctx, stop := signalContext()
	defer stop()

	genCfg := datasets.GeneratorConfig{
		Seed:        cfg.Seed,
		Layout:      output.Layout{Root: outputDir(name)},
		History:     cfg.History,
		Incremental: cfg.Incremental,
	}

	var (
		pool   *pgxpool.Pool
		loader *db.Loader
	)
	if cfg.Load.Enabled {
		pool, err = db.Connect(ctx, cfg.Load.Connection)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if cfg.Load.DropExisting {
			if err := db.DropSchema(ctx, pool); err != nil {
				return err
			}
		}
		if err := db.CreateSchema(ctx, pool); err != nil {
			return err
		}

		loader = db.NewLoader(pool)
		genCfg.Sink = loader
	}

	res, err := generate(ctx, dataset, genCfg)
	if err != nil {
		return err
	}

	if loader != nil {
		run := db.Run{
			ID:      uuid.NewString(),
			Dataset: name,
			Seed:    cfg.Seed,
			Rows:    loader.Rows(),
		}
		if err := db.SaveRun(ctx, pool, run); err != nil {
			return fmt.Errorf("failed to save run metadata: %w", err)
		}
		logging.Info().
			Str("run_id", run.ID).
			Int64("rows", run.Rows).
			Interface("tables", loader.Loaded()).
			Msg("Database load complete")
	}

	printFiles(cmd, res)
	return nil
}

func generate(ctx context.Context, dataset datasets.Dataset, genCfg datasets.GeneratorConfig) (datasets.Result, error) {
	res, err := dataset.Generate(ctx, genCfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return res, fmt.Errorf("generation of %s interrupted", dataset.Name())
		}
		return res, fmt.Errorf("failed to generate %s: %w", dataset.Name(), err)
	}
	return res, nil
}

func outputDir(dataset string) string {
	if dataset == "incremental" {
		return cfg.Incremental.OutputDir
	}
	return cfg.History.OutputDir
}

func printFiles(cmd *cobra.Command, res datasets.Result) {
	cmd.Printf("Generated %s dataset in %s\n", res.Dataset, outputDir(res.Dataset))
	cmd.Println("Files generated:")
	for _, f := range res.Files {
		cmd.Printf("- %s\n", f)
	}
}
