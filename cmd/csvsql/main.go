package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vegasq/csvsql/internal/config"
	"github.com/vegasq/csvsql/internal/logging"
	"github.com/vegasq/csvsql/internal/metrics"
	"github.com/vegasq/csvsql/output"
	"github.com/vegasq/csvsql/reader"
	"github.com/vegasq/csvsql/runner"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by the commands of one invocation
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string

	cfg     *config.Config
	metrics *metrics.Metrics
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "csvsql",
		Short: "Query CSV, Parquet, Excel and SQLite files with SQL",
		Long: `csvsql runs a small SELECT dialect against tabular files.

The file to read is named in the FROM clause:

  csvsql search -s "SELECT Name, Year FROM games.csv WHERE Year > 2005 ORDER BY Year DESC"`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", logging.DefaultLevel, "log level: trace, debug, info, warn, error")
	flags.String("format", output.FormatPlain, "console output format: csv, tsv, json, table, plain")
	flags.String("delimiter", ",", `field delimiter for delimited input ("\t" for tabs)`)
	flags.Bool("sanitize", false, "escape formula-like cells in CSV output")
	flags.Int("limit", 0, "maximum number of rows to output (0 = unlimited)")
	flags.String("metrics-file", "", "write Prometheus metrics to this file after the command")

	root.AddCommand(a.newSearchCmd(), a.newHeadersCmd())
	return root
}

// setup loads configuration and configures logging before any command runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	if err := logging.Configure(logging.Options{
		Level:       cfg.Log.Level,
		ForceColors: cfg.Log.ForceColors,
		Output:      a.stderr,
	}); err != nil {
		return err
	}

	a.cfg = cfg
	a.metrics = metrics.New()
	return nil
}

func (a *app) readerOptions() reader.Options {
	return reader.Options{Delimiter: a.cfg.Delimiter()}
}

// writeMetrics dumps the registry when a metrics file is configured
func (a *app) writeMetrics() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (a *app) newSearchCmd() *cobra.Command {
	var sqlText, outputPath string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a query and print or save the result",
		Example: `  csvsql search -s "SELECT * FROM games.csv WHERE Platform = Wii"
  csvsql search -s "SELECT Genre, COUNT(*) FROM games.csv GROUP BY Genre" -o genres.xlsx
  csvsql search "SELECT DISTINCT Platform FROM data/*.csv"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlText == "" && len(args) == 1 {
				sqlText = args[0]
			}
			if sqlText == "" {
				return errors.New("a query is required (use -s or pass it as an argument)")
			}

			r := runner.New(runner.Options{
				Reader:  a.readerOptions(),
				Output:  output.Options{Sanitize: a.cfg.Output.Sanitize},
				Format:  a.cfg.Output.Format,
				Limit:   a.cfg.Limit,
				Stdout:  a.stdout,
				Logger:  logrus.StandardLogger(),
				Metrics: a.metrics,
			})

			stats, err := r.RunQuery(sqlText, outputPath)
			if mErr := a.writeMetrics(); mErr != nil && err == nil {
				err = mErr
			}
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			p.Fprintf(a.stderr, "Loaded %d rows, returned %d rows\n", stats.RowsLoaded, stats.RowsReturned)
			if outputPath != "" {
				fmt.Fprintf(a.stderr, "Results written to %s\n", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sqlText, "sql", "s", "", "query to run")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write results to this file; the format follows the extension")
	return cmd
}

func (a *app) newHeadersCmd() *cobra.Command {
	var showTypes bool

	cmd := &cobra.Command{
		Use:   "headers <file>",
		Short: "List the columns of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := reader.Describe(args[0], a.readerOptions())
			if err != nil {
				return err
			}

			for _, col := range columns {
				if showTypes {
					fmt.Fprintf(a.stdout, "%s\t%s\n", col.Name, col.Type)
				} else {
					fmt.Fprintln(a.stdout, col.Name)
				}
			}
			return a.writeMetrics()
		},
	}

	cmd.Flags().BoolVar(&showTypes, "types", false, "show column types")
	return cmd
}
