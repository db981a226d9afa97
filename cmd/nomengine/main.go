package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	datasetadapter "nomengine/adapters/dataset"
	"nomengine/adapters/genetic"
	"nomengine/adapters/postgres"
	"nomengine/adapters/rng"
	"nomengine/adapters/stats"
	"nomengine/app"
	"nomengine/domain/core"
	"nomengine/domain/dataset"
	"nomengine/domain/encoding"
	"nomengine/domain/runrecord"
	"nomengine/internal"
	"nomengine/internal/config"
	apperrors "nomengine/internal/errors"
	"nomengine/ports"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "nomengine",
		Short: "Formula evolution and statistical diagnostics over named entities",
	}
	rootCmd.AddCommand(
		newRunCmd(),
		newRecordsCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var mode string
	var domainsCSV string
	var schemesCSV string
	var target int
	var seed int64
	var outPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one batch over every (domain, scheme) pair",
		Long: `Execute one batch: sample each domain, evolve a scoring formula per
encoding scheme, run the diagnostic battery, and emit one JSON line per
(domain, scheme) pair.

Example: nomengine run --mode daily --domains hurricanes,ceos --seed 7 --out results.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, mode, domainsCSV, schemesCSV, target, seed, outPath)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "daily", "Preset: daily or weekly")
	cmd.Flags().StringVar(&domainsCSV, "domains", "demo", "Comma-separated domain keys")
	cmd.Flags().StringVar(&schemesCSV, "schemes", "", "Comma-separated encoding schemes (default all)")
	cmd.Flags().IntVar(&target, "target", 0, "Override the preset's per-domain sample size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Override the configured base seed")
	cmd.Flags().StringVar(&outPath, "out", "", "Write records as JSON lines to this file (default stdout)")

	return cmd
}

func newRecordsCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "records <run-id>",
		Short: "Fetch the stored records of a past run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.NewDefaultLogger()

			envCfg, err := config.Load()
			if err != nil {
				return err
			}
			if !envCfg.Database.Enabled() {
				return apperrors.ConfigInvalid("records requires DATABASE_URL")
			}

			runID, err := core.ParseRunID(args[0])
			if err != nil {
				return apperrors.ConfigInvalid("invalid run ID: " + err.Error())
			}

			db, err := sqlx.Connect("postgres", envCfg.Database.URL)
			if err != nil {
				return apperrors.Wrap(err, "connecting to database")
			}
			defer db.Close()

			records, err := postgres.NewRunRecordStore(db, logger).RecordsByRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			return writeRecords(records, outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write records as JSON lines to this file (default stdout)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the run_records schema to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			envCfg, err := config.Load()
			if err != nil {
				return err
			}
			if !envCfg.Database.Enabled() {
				return apperrors.ConfigInvalid("migrate requires DATABASE_URL")
			}

			db, err := sqlx.Connect("postgres", envCfg.Database.URL)
			if err != nil {
				return apperrors.Wrap(err, "connecting to database")
			}
			defer db.Close()

			if _, err := db.ExecContext(cmd.Context(), postgres.Schema); err != nil {
				return apperrors.Wrap(err, "applying schema")
			}
			fmt.Println("schema applied")
			return nil
		},
	}
}

func runBatch(cmd *cobra.Command, mode, domainsCSV, schemesCSV string, target int, seed int64, outPath string) error {
	logger := internal.NewDefaultLogger()

	envCfg, err := config.Load()
	if err != nil {
		return err
	}

	domains, err := core.ParseDomainKeys(domainsCSV)
	if err != nil {
		return apperrors.ConfigInvalid("invalid --domains: " + err.Error())
	}

	var runMode runrecord.Mode
	switch strings.ToLower(mode) {
	case "daily":
		runMode = runrecord.ModeDaily
	case "weekly":
		runMode = runrecord.ModeWeekly
	default:
		return apperrors.ConfigInvalid("unknown --mode " + mode + " (want daily or weekly)")
	}

	cfg := runrecord.Preset(runMode)
	cfg.Domains = domains
	if schemesCSV != "" {
		schemes, err := encoding.ParseSchemes(schemesCSV)
		if err != nil {
			return apperrors.ConfigInvalid("invalid --schemes: " + err.Error())
		}
		cfg.Schemes = schemes
	}
	cfg.Seed = envCfg.Run.Seed
	cfg.Workers = envCfg.Run.Workers
	if target > 0 {
		cfg.DefaultSampleSize = target
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	source, store, cleanup, err := buildBackends(envCfg, domains, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := app.NewRunService(source, genetic.New(rng.New()), stats.New(), store, logger)
	records, err := svc.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := writeRecords(records, outPath); err != nil {
		return err
	}

	warned := 0
	for _, r := range records {
		if len(r.Warnings) > 0 {
			warned++
		}
	}
	logger.Info("batch complete: %d records, %d with warnings", len(records), warned)
	return nil
}

// buildBackends picks the dataset source by what is configured: postgres,
// then excel, then the synthetic generator with a logged warning.
func buildBackends(envCfg *config.Config, domains []core.DomainKey, logger *internal.Logger) (ports.DatasetPort, ports.ResultStorePort, func(), error) {
	cleanup := func() {}

	var db *sqlx.DB
	if envCfg.Database.Enabled() {
		var err error
		db, err = sqlx.Connect("postgres", envCfg.Database.URL)
		if err != nil {
			return nil, nil, cleanup, apperrors.Wrap(err, "connecting to database")
		}
		cleanup = func() { db.Close() }
	}

	var store ports.ResultStorePort
	if db != nil {
		store = postgres.NewRunRecordStore(db, logger)
	}

	specs := make(map[core.DomainKey]datasetadapter.DomainSpec, len(domains))
	for _, d := range domains {
		specs[d] = datasetadapter.DomainSpec{Outcome: dataset.OutcomeContinuous}
	}

	switch {
	case db != nil:
		return datasetadapter.NewPostgresSource(db, specs, logger), store, cleanup, nil
	case envCfg.Excel.Enabled():
		excelDomains := make(map[core.DomainKey]datasetadapter.ExcelDomain, len(domains))
		for _, d := range domains {
			excelDomains[d] = datasetadapter.ExcelDomain{
				DomainSpec:    specs[d],
				Sheet:         string(d),
				NameColumn:    envCfg.Excel.NameColumn,
				OutcomeColumn: envCfg.Excel.OutcomeColumn,
			}
		}
		return datasetadapter.NewExcelSource(envCfg.Excel.FilePath, excelDomains, logger), store, cleanup, nil
	default:
		logger.Warn("no DATABASE_URL or EXCEL_FILE configured; using the synthetic dataset source")
		return datasetadapter.NewSynthetic(specs), store, cleanup, nil
	}
}

func writeRecords(records []runrecord.RunRecord, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return apperrors.Wrap(err, "creating output file")
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return apperrors.Wrap(err, "encoding record")
		}
	}
	return nil
}
