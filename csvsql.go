package csvsql

import (
	"context"
	"path/filepath"
)

// fallbackIdentifier is used when neither an override nor the source filename
// yields a usable identifier.
const fallbackIdentifier = "data"

// ConvertOptions configures a conversion. The zero value (or
// NewConvertOptions) derives schema and table names from the source filename,
// reads and writes UTF-8, and writes the uncompressed script to the current
// directory.
//
// Example:
//
//	opts := NewConvertOptions().
//		WithSchemaName("staging").
//		WithEncoding("latin1").
//		WithOutputDir("./out")
//	err := Convert("my-data.csv", opts)
type ConvertOptions struct {
	// SchemaName overrides the schema name derived from the filename. The
	// override still passes through identifier normalization.
	SchemaName string
	// TableName overrides the table name derived from the filename. The
	// override still passes through identifier normalization.
	TableName string
	// Encoding is the IANA/WHATWG label of the text encoding used to read
	// delimited input and write the script. Empty means UTF-8.
	Encoding string
	// OutputDir is the directory the script is written to. Empty means the
	// current directory.
	OutputDir string
	// Compression compresses the generated script (.sql.gz, .sql.xz, .sql.zst)
	Compression CompressionType
}

// NewConvertOptions creates default conversion options.
func NewConvertOptions() ConvertOptions {
	return ConvertOptions{}
}

// WithSchemaName sets an explicit schema name.
func (o ConvertOptions) WithSchemaName(name string) ConvertOptions {
	o.SchemaName = name
	return o
}

// WithTableName sets an explicit table name.
func (o ConvertOptions) WithTableName(name string) ConvertOptions {
	o.TableName = name
	return o
}

// WithEncoding sets the text encoding by label, e.g. "latin1".
func (o ConvertOptions) WithEncoding(label string) ConvertOptions {
	o.Encoding = label
	return o
}

// WithOutputDir sets the directory the script is written to.
func (o ConvertOptions) WithOutputDir(dir string) ConvertOptions {
	o.OutputDir = dir
	return o
}

// WithCompression compresses the generated script.
func (o ConvertOptions) WithCompression(compression CompressionType) ConvertOptions {
	o.Compression = compression
	return o
}

// resolveIdentifier picks the identifier for one of the script names:
// an explicit override (normalized) when given, otherwise the filename-derived
// identifier, otherwise the package fallback.
func resolveIdentifier(override string, fromPath Identifier) Identifier {
	if override != "" {
		if id := NewIdentifier(override); !id.IsEmpty() {
			return id
		}
	}
	if !fromPath.IsEmpty() {
		return fromPath
	}
	return NewIdentifier(fallbackIdentifier)
}

// Convert converts a tabular source file into a PostgreSQL script file.
//
// The script contains three semicolon-terminated statements in fixed order:
// CREATE SCHEMA, DROP TABLE IF EXISTS + CREATE TABLE (all columns TEXT), and
// a single INSERT with one literal tuple per source row in file order. The
// output file is named after the normalized source filename with a .sql
// extension and is overwritten if it exists.
//
// Example:
//
//	if err := csvsql.Convert("my-data.csv"); err != nil {
//		log.Fatal(err)
//	}
//	// my_data.sql now holds CREATE SCHEMA my_data; DROP/CREATE TABLE
//	// my_data.my_data; INSERT INTO my_data.my_data ...
func Convert(path string, opts ...ConvertOptions) error {
	return ConvertContext(context.Background(), path, opts...)
}

// ConvertContext is Convert with context support. The context is consulted
// between phases and periodically while streaming rows; conversion is
// otherwise fully synchronous with no partial-output cleanup.
func ConvertContext(ctx context.Context, path string, opts ...ConvertOptions) error {
	options := NewConvertOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	enc, err := lookupEncoding(options.Encoding)
	if err != nil {
		return err
	}
	src, err := newFile(path, enc)
	if err != nil {
		return err
	}

	derived := identifierFromPath(path)
	schemaName := resolveIdentifier(options.SchemaName, derived)
	tableName := resolveIdentifier(options.TableName, derived)

	if err := ctx.Err(); err != nil {
		return err
	}

	// First pass: the header record.
	head, err := src.readHeader()
	if err != nil {
		return err
	}
	if err := validateColumnNames(head); err != nil {
		return err
	}

	// Second pass: every data row, streamed through the formatter.
	values, err := valueRows(ctx, src)
	if err != nil {
		return err
	}

	script := buildScript(schemaName, tableName, head, values)

	outName := derived.String()
	if outName == "" {
		outName = fallbackIdentifier
	}
	outPath := filepath.Join(options.OutputDir, outName+extSQL+options.Compression.Extension())
	return writeScript(outPath, script, options)
}

// ctxCheckInterval is how many rows the value formatter streams between
// context checks.
const ctxCheckInterval = 1000

// valueRows streams every data row of the source file through the row
// formatter. The rows are read one at a time but the result is fully
// materialized before being returned.
func valueRows(ctx context.Context, src *file) (string, error) {
	var rows []string
	err := src.forEachRecord(func(record Record) error {
		if len(rows)%ctxCheckInterval == ctxCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rows = append(rows, formatValueRow(record))
		return nil
	})
	if err != nil {
		return "", err
	}
	return joinValueRows(rows), nil
}
