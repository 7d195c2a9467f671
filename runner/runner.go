// Package runner ties the query pipeline together: parse the query, load
// the table it names, execute it and write the result, recording logs and
// metrics for every run.
package runner

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vegasq/csvsql/internal/metrics"
	"github.com/vegasq/csvsql/output"
	"github.com/vegasq/csvsql/query"
	"github.com/vegasq/csvsql/reader"
)

// consolePath names standard output in OutputErrors
const consolePath = "<stdout>"

// Stats describes one completed run.
type Stats struct {
	RunID        string
	Table        string
	RowsLoaded   int
	RowsReturned int

	ParseTime time.Duration
	LoadTime  time.Duration
	QueryTime time.Duration
	WriteTime time.Duration
}

// Options configures a Runner. Zero values pick the defaults noted on
// each field.
type Options struct {
	// Reader controls how sources are parsed.
	Reader reader.Options
	// Output controls formatter behavior for both console and files.
	Output output.Options
	// Format is the console format. Defaults to plain. Files always use
	// their extension.
	Format string
	// Limit caps the number of rows written. Zero means no limit.
	Limit int
	// Stdout receives console output. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger defaults to the standard Logrus logger.
	Logger logrus.FieldLogger
	// Metrics defaults to a private registry.
	Metrics *metrics.Metrics
}

// Runner executes queries. A Runner holds no per-query state, so one value
// may serve concurrent calls.
type Runner struct {
	reader  reader.Options
	output  output.Options
	format  string
	limit   int
	stdout  io.Writer
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

// New creates a Runner from opts
func New(opts Options) *Runner {
	r := &Runner{
		reader:  opts.Reader,
		output:  opts.Output,
		format:  opts.Format,
		limit:   opts.Limit,
		stdout:  opts.Stdout,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if r.format == "" {
		r.format = output.FormatPlain
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.logger == nil {
		r.logger = logrus.StandardLogger()
	}
	if r.metrics == nil {
		r.metrics = metrics.New()
	}
	return r
}

// Metrics returns the collectors the runner records to
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// RunQuery parses sqlText, loads the table named in its FROM clause and
// executes it. The result goes to outputPath when it is not empty and to
// the console otherwise.
//
// Errors are returned unchanged from the failing stage: *query.ParseError,
// *reader.LoadError or *output.OutputError. Stats is nil on error.
func (r *Runner) RunQuery(sqlText, outputPath string) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString()}
	log := r.logger.WithField("run_id", stats.RunID)

	start := time.Now()
	q, err := query.Parse(sqlText)
	stats.ParseTime = time.Since(start)
	r.metrics.ObserveStage(metrics.StageParse, stats.ParseTime)
	if err != nil {
		return nil, r.fail(log, stats, metrics.StatusParseError, err)
	}
	stats.Table = q.Table
	log = log.WithField("table", q.Table)

	start = time.Now()
	table, err := reader.Load(q.Table, r.reader)
	stats.LoadTime = time.Since(start)
	r.metrics.ObserveStage(metrics.StageLoad, stats.LoadTime)
	if err != nil {
		return nil, r.fail(log, stats, metrics.StatusLoadError, err)
	}
	stats.RowsLoaded = len(table.Rows)

	start = time.Now()
	result := query.Execute(table.Headers, table.Rows, q)
	if r.limit > 0 && len(result.Rows) > r.limit {
		result.Rows = result.Rows[:r.limit]
	}
	stats.QueryTime = time.Since(start)
	r.metrics.ObserveStage(metrics.StageExecute, stats.QueryTime)
	stats.RowsReturned = len(result.Rows)

	start = time.Now()
	err = r.write(outputPath, result)
	stats.WriteTime = time.Since(start)
	r.metrics.ObserveStage(metrics.StageWrite, stats.WriteTime)
	if err != nil {
		return nil, r.fail(log, stats, metrics.StatusOutputError, err)
	}

	r.metrics.ObserveQuery(metrics.StatusOK, stats.RowsLoaded, stats.RowsReturned)
	log.WithFields(logrus.Fields{
		"rows_loaded":   stats.RowsLoaded,
		"rows_returned": stats.RowsReturned,
		"parse_time":    stats.ParseTime,
		"load_time":     stats.LoadTime,
		"query_time":    stats.QueryTime,
		"write_time":    stats.WriteTime,
		"output":        outputPath,
	}).Info("Query completed")

	return stats, nil
}

func (r *Runner) write(outputPath string, result *query.Result) error {
	if outputPath != "" {
		return output.WriteFile(outputPath, "", result.Headers, result.Rows, r.output)
	}

	formatter, err := output.NewConsole(r.format, r.stdout, r.output)
	if err != nil {
		return &output.OutputError{Path: consolePath, Err: err}
	}
	if err := formatter.Format(result.Headers, result.Rows); err != nil {
		return &output.OutputError{Path: consolePath, Err: err}
	}
	return nil
}

func (r *Runner) fail(log logrus.FieldLogger, stats *Stats, status string, err error) error {
	r.metrics.ObserveQuery(status, stats.RowsLoaded, 0)
	log.WithError(err).WithField("status", status).Error("Query failed")
	return err
}
