package csvsql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Percentile levels reported for verbose columns, mirroring the quantile
// breakdowns of the summary output.
var verbosePercentiles = []float64{0.75, 0.90, 0.95}

// SummaryOptions configures which columns get which statistics.
//
// Example:
//
//	opts := NewSummaryOptions().
//		WithSkipColumns("id").
//		WithUniqueCountColumns("country").
//		WithVerboseColumns("price", "quantity")
type SummaryOptions struct {
	// SkipColumns removes columns from the summary entirely
	SkipColumns []string
	// UniqueCountColumns lists columns that get a distinct-value count
	UniqueCountColumns []string
	// VerboseColumns lists columns that get min/max/mean/median and
	// percentile breakdowns
	VerboseColumns []string
	// Encoding is the IANA/WHATWG label of the source text encoding.
	// Empty means UTF-8.
	Encoding string
}

// NewSummaryOptions creates default summary options: every column reported,
// no unique counts, no percentile breakdowns.
func NewSummaryOptions() SummaryOptions {
	return SummaryOptions{}
}

// WithSkipColumns excludes the named columns from the summary.
func (o SummaryOptions) WithSkipColumns(columns ...string) SummaryOptions {
	o.SkipColumns = append(o.SkipColumns, columns...)
	return o
}

// WithUniqueCountColumns requests distinct-value counts for the named columns.
func (o SummaryOptions) WithUniqueCountColumns(columns ...string) SummaryOptions {
	o.UniqueCountColumns = append(o.UniqueCountColumns, columns...)
	return o
}

// WithVerboseColumns requests detailed numeric statistics for the named
// columns.
func (o SummaryOptions) WithVerboseColumns(columns ...string) SummaryOptions {
	o.VerboseColumns = append(o.VerboseColumns, columns...)
	return o
}

// WithEncoding sets the source text encoding by label.
func (o SummaryOptions) WithEncoding(label string) SummaryOptions {
	o.Encoding = label
	return o
}

// validate rejects option sets where a skipped column is also requested for
// statistics.
func (o SummaryOptions) validate() error {
	for _, skip := range o.SkipColumns {
		if slices.Contains(o.UniqueCountColumns, skip) {
			return fmt.Errorf("%w: %q in both skip and unique-count lists", ErrColumnOverlap, skip)
		}
		if slices.Contains(o.VerboseColumns, skip) {
			return fmt.Errorf("%w: %q in both skip and verbose lists", ErrColumnOverlap, skip)
		}
	}
	return nil
}

// PercentileStat is one percentile level of a verbose column: the
// interpolated value and the count of distinct values strictly below it.
type PercentileStat struct {
	// Level is the percentile level in (0, 1), e.g. 0.75
	Level float64
	// Value is the linearly interpolated percentile value
	Value float64
	// UniqueBelow is the number of distinct values strictly below Value
	UniqueBelow int64
}

// VerboseStats holds the detailed numeric statistics of a verbose column.
type VerboseStats struct {
	Minimum     float64
	Maximum     float64
	Mean        float64
	Median      float64
	Percentiles []PercentileStat
}

// ColumnSummary holds the statistics of a single column.
type ColumnSummary struct {
	// Name is the column name from the source header
	Name string
	// DataType is the inferred type label (TEXT, INTEGER, REAL, DATETIME)
	DataType string
	// NonNullCount counts rows where the column has a non-empty value
	NonNullCount int64
	// UniqueCount is valid only for columns requested via
	// WithUniqueCountColumns
	UniqueCount sql.NullInt64
	// Verbose is set only for columns requested via WithVerboseColumns
	Verbose *VerboseStats
}

// Summary is the per-column statistics table for a dataset.
type Summary struct {
	// Table is the table name the dataset was loaded under
	Table string
	// RowCount is the number of data rows
	RowCount int
	// Columns holds one entry per reported column, header order preserved
	Columns []ColumnSummary
}

// Summarize computes descriptive statistics for a tabular file.
//
// The file is parsed, loaded into an in-memory SQLite database (empty fields
// become NULL), and summarized per column: inferred data type, non-null
// count, and on request distinct-value counts and percentile breakdowns.
//
// Example:
//
//	summary, err := csvsql.Summarize("sales.csv",
//		csvsql.NewSummaryOptions().WithVerboseColumns("amount"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(summary)
func Summarize(path string, opts ...SummaryOptions) (*Summary, error) {
	return SummarizeContext(context.Background(), path, opts...)
}

// SummarizeContext is Summarize with context support.
func SummarizeContext(ctx context.Context, path string, opts ...SummaryOptions) (*Summary, error) {
	options := NewSummaryOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if err := options.validate(); err != nil {
		return nil, err
	}

	enc, err := lookupEncoding(options.Encoding)
	if err != nil {
		return nil, err
	}
	src, err := newFile(path, enc)
	if err != nil {
		return nil, err
	}

	t, err := src.parseTable()
	if err != nil {
		return nil, err
	}

	// Skipped columns must exist; unknown names here are caller mistakes,
	// not data conditions.
	for _, skip := range options.SkipColumns {
		if !slices.Contains(t.getHeader(), skip) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, skip)
		}
	}

	db, err := openMemoryDB()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close() // Ignore close error during cleanup
	}()

	if err := loadTable(ctx, db, t); err != nil {
		return nil, err
	}

	summary := &Summary{
		Table:    t.getName(),
		RowCount: len(t.getRecords()),
	}
	for _, col := range t.columnInfo {
		if slices.Contains(options.SkipColumns, col.Name) {
			continue
		}

		colSummary, err := summarizeColumn(ctx, db, t.getName(), col, options)
		if err != nil {
			return nil, err
		}
		summary.Columns = append(summary.Columns, colSummary)
	}
	return summary, nil
}

// summarizeColumn computes the statistics of one column via SQL aggregates,
// with percentile interpolation done over the sorted values in Go (SQLite
// ships no quantile aggregate).
func summarizeColumn(ctx context.Context, db *sql.DB, tableName string, col columnInfo, options SummaryOptions) (ColumnSummary, error) {
	result := ColumnSummary{
		Name:     col.Name,
		DataType: col.Type.name(),
	}

	nonNullQuery := fmt.Sprintf(`SELECT COUNT("%s") FROM "%s"`, col.Name, tableName)
	if err := db.QueryRowContext(ctx, nonNullQuery).Scan(&result.NonNullCount); err != nil {
		return result, fmt.Errorf("failed to count non-null values of %s: %w", col.Name, err)
	}

	if slices.Contains(options.UniqueCountColumns, col.Name) {
		uniqueQuery := fmt.Sprintf(`SELECT COUNT(DISTINCT "%s") FROM "%s"`, col.Name, tableName)
		var unique int64
		if err := db.QueryRowContext(ctx, uniqueQuery).Scan(&unique); err != nil {
			return result, fmt.Errorf("failed to count unique values of %s: %w", col.Name, err)
		}
		result.UniqueCount = sql.NullInt64{Int64: unique, Valid: true}
	}

	if slices.Contains(options.VerboseColumns, col.Name) {
		verbose, err := verboseColumnStats(ctx, db, tableName, col.Name)
		if err != nil {
			return result, err
		}
		result.Verbose = verbose
	}
	return result, nil
}

// verboseColumnStats fetches the sorted non-null values of a column as REAL
// and derives min/max/mean/median and the percentile breakdowns.
func verboseColumnStats(ctx context.Context, db *sql.DB, tableName, column string) (*VerboseStats, error) {
	valuesQuery := fmt.Sprintf(
		`SELECT CAST("%s" AS REAL) FROM "%s" WHERE "%s" IS NOT NULL ORDER BY CAST("%s" AS REAL)`,
		column, tableName, column, column,
	)
	rows, err := db.QueryContext(ctx, valuesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch values of %s: %w", column, err)
	}
	defer func() {
		_ = rows.Close() // Ignore close error during cleanup
	}()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value of %s: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate values of %s: %w", column, err)
	}
	if len(values) == 0 {
		return nil, nil // All NULL; nothing to report.
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	stats := &VerboseStats{
		Minimum: values[0],
		Maximum: values[len(values)-1],
		Mean:    sum / float64(len(values)),
		Median:  quantile(values, 0.5),
	}

	for _, level := range verbosePercentiles {
		value := quantile(values, level)

		belowQuery := fmt.Sprintf(
			`SELECT COUNT(DISTINCT CAST("%s" AS REAL)) FROM "%s" WHERE CAST("%s" AS REAL) < ?`,
			column, tableName, column,
		)
		var below int64
		if err := db.QueryRowContext(ctx, belowQuery, value).Scan(&below); err != nil {
			return nil, fmt.Errorf("failed to count values below %gth percentile of %s: %w", level*100, column, err)
		}

		stats.Percentiles = append(stats.Percentiles, PercentileStat{
			Level:       level,
			Value:       value,
			UniqueBelow: below,
		})
	}
	return stats, nil
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// String renders the summary as an aligned text table. Cells without a value
// print as NaN.
func (s *Summary) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	hasUnique := false
	hasVerbose := false
	for _, col := range s.Columns {
		if col.UniqueCount.Valid {
			hasUnique = true
		}
		if col.Verbose != nil {
			hasVerbose = true
		}
	}

	headers := []string{"Column", "Data Type", "Non-Null Count"}
	if hasUnique {
		headers = append(headers, "Unique Count")
	}
	if hasVerbose {
		headers = append(headers, "Minimum", "Maximum", "Mean", "Median")
		for _, level := range verbosePercentiles {
			label := strconv.Itoa(int(level*100)) + "th Percentile"
			headers = append(headers, label, label+" - Unique Count")
		}
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, col := range s.Columns {
		cells := []string{col.Name, col.DataType, strconv.FormatInt(col.NonNullCount, 10)}
		if hasUnique {
			if col.UniqueCount.Valid {
				cells = append(cells, strconv.FormatInt(col.UniqueCount.Int64, 10))
			} else {
				cells = append(cells, "NaN")
			}
		}
		if hasVerbose {
			cells = append(cells, verboseCells(col.Verbose)...)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	_ = w.Flush() // Writes to a strings.Builder; cannot fail
	return b.String()
}

// verboseCells renders the verbose statistics of one column, or a NaN cell
// per statistic when the column has none.
func verboseCells(stats *VerboseStats) []string {
	if stats == nil {
		cells := make([]string, 4+2*len(verbosePercentiles))
		for i := range cells {
			cells[i] = "NaN"
		}
		return cells
	}

	cells := []string{
		formatFloat(stats.Minimum),
		formatFloat(stats.Maximum),
		formatFloat(stats.Mean),
		formatFloat(stats.Median),
	}
	for _, p := range stats.Percentiles {
		cells = append(cells, formatFloat(p.Value), strconv.FormatInt(p.UniqueBelow, 10))
	}
	return cells
}

// formatFloat renders a statistic with minimal digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
