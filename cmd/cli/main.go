package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"autostat/adapters/tabular"
	"autostat/domain/dataset"
	"autostat/internal"
	"autostat/internal/config"
	"autostat/internal/container"
	"autostat/internal/migration"
	"autostat/internal/testkit"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "autostat",
		Short: "Automated statistical reports for tabular data",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newPreviewCmd(),
		newSampleCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var typesFile, strategy, out string

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Generate the full HTML report for a CSV or Excel file",
		Long: `Profile the file and run every applicable pairwise test, writing the
descriptive report followed by the inferential report.

The types file maps column names to continuous, binary, nominal, ordinal or
categorical, in the order the columns should be paired.

Example: autostat report survey.csv --types types.json --strategy impute --out report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return runReport(cmd.Context(), args[0], typesFile, strategy, w)
		},
	}

	cmd.Flags().StringVar(&typesFile, "types", "", "JSON file mapping column names to variable types (required)")
	cmd.Flags().StringVar(&strategy, "strategy", string(dataset.StrategyReject), "Missing-data strategy: reject|drop-columns|drop-rows|impute")
	cmd.Flags().StringVar(&out, "out", "", "Write the report here instead of stdout")
	_ = cmd.MarkFlagRequired("types")
	return cmd
}

func runReport(ctx context.Context, dataFile, typesFile, strategyName string, w io.Writer) error {
	content, err := os.ReadFile(dataFile)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}
	rawTypes, err := os.ReadFile(typesFile)
	if err != nil {
		return fmt.Errorf("failed to read types file: %w", err)
	}
	annotations, err := tabular.ParseVariableTypes(string(rawTypes))
	if err != nil {
		return err
	}
	strategy, err := dataset.ParseMissingStrategy(strategyName)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.New(cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)), nil)
	if err != nil {
		return err
	}

	ds, err := c.Decoder.Decode(filepath.Base(dataFile), content)
	if err != nil {
		return err
	}
	page, err := c.Reports.GenerateFullReport(ctx, ds, annotations, strategy)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}

func newPreviewCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview [data-file]",
		Short: "Print the columns, leading rows and missing-data summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(args[0], rows, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 5, "Number of leading rows to include")
	return cmd
}

func runPreview(dataFile string, rows int, w io.Writer) error {
	content, err := os.ReadFile(dataFile)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}
	ds, err := tabular.NewDataReader(nil).Decode(filepath.Base(dataFile), content)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tabular.BuildPreview(ds, rows))
}

func newSampleCmd() *cobra.Command {
	config := testkit.DefaultSurveyConfig()
	var format, typesOut string

	cmd := &cobra.Command{
		Use:   "sample [out-file]",
		Short: "Write a synthetic survey with planted effects",
		Long: `Generate a survey whose treated respondents are more satisfied, whose
weekly hours track satisfaction and whose region is pure noise. Useful for
checking what the report flags on data with a known answer.

Example: autostat sample survey.xlsx --respondents 500 --types-out types.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()

			fmtName := tabular.Format(format)
			if format == "" {
				fmtName = tabular.FormatOf(args[0])
			}
			return runSample(config, fmtName, f, typesOut)
		},
	}

	cmd.Flags().IntVar(&config.Respondents, "respondents", config.Respondents, "Number of rows")
	cmd.Flags().Float64Var(&config.GroupEffect, "group-effect", config.GroupEffect, "Satisfaction shift of treated respondents in SD units")
	cmd.Flags().Float64Var(&config.Correlation, "correlation", config.Correlation, "Correlation between satisfaction and hours")
	cmd.Flags().Float64Var(&config.MissingRate, "missing-rate", config.MissingRate, "Share of blank cells in satisfaction, hours and region")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed for deterministic output")
	cmd.Flags().StringVar(&format, "format", "", "csv|xlsx (default: from the file extension)")
	cmd.Flags().StringVar(&typesOut, "types-out", "", "Also write the matching variable types JSON here")
	return cmd
}

func runSample(config testkit.SurveyGeneratorConfig, format tabular.Format, w io.Writer, typesOut string) error {
	g := testkit.NewSurveyGenerator(config)
	ds, err := g.Generate()
	if err != nil {
		return err
	}
	if err := tabular.Encode(w, ds, format); err != nil {
		return err
	}
	if typesOut == "" {
		return nil
	}

	// written by hand: marshalling a map would sort the keys and lose pairing order
	var b strings.Builder
	b.WriteString("{")
	for i, ann := range g.Annotations() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", ann.Column, ann.Type)
	}
	b.WriteString("}\n")
	return os.WriteFile(typesOut, []byte(b.String()), 0o644)
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the submission table used by SESSION_STORE=postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			db, err := sqlx.ConnectContext(cmd.Context(), "postgres", databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s applied\n", runner.Version())
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	return cmd
}
