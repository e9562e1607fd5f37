// Package csvsql converts tabular data files into PostgreSQL schema and
// data-load scripts, and computes descriptive statistics for tabular datasets.
//
// The converter reads a CSV, TSV, Excel (XLSX), or Parquet file and writes a
// single .sql file containing three statements in fixed order: schema
// creation, table creation (all columns typed TEXT), and a multi-row INSERT.
// Schema and table names are derived from the source filename unless
// overridden.
//
// # Basic Usage
//
//	err := csvsql.Convert("my-data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// writes my_data.sql with schema/table "my_data"
//
// Options follow a With-chained value pattern:
//
//	opts := csvsql.NewConvertOptions().
//	    WithSchemaName("staging").
//	    WithTableName("raw_events").
//	    WithEncoding("latin1")
//	err := csvsql.Convert("events.csv", opts)
//
// # Statistics
//
// Summarize loads the file into an in-memory SQLite database and reports
// per-column type, non-null count, and optionally unique counts and
// percentile breakdowns:
//
//	summary, err := csvsql.Summarize("data.csv",
//	    csvsql.NewSummaryOptions().WithVerboseColumns("price"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary)
//
// # Input Formats
//
// Format is detected from the file extension. Compressed inputs (.gz, .bz2,
// .xz, .zst) are decompressed transparently:
//   - "data.csv", "data.csv.gz" — comma-separated
//   - "data.tsv.zst" — tab-separated
//   - "data.xlsx" — first sheet of an Excel workbook
//   - "data.parquet" — Apache Parquet
//
// Text encodings other than UTF-8 are selected by IANA/WHATWG label and apply
// to delimited-text input and to the generated .sql output.
package csvsql
