package csvsql

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// parseParquet parses a Parquet file into a table. Parquet needs random
// access, so the (possibly decompressed) content is read into memory first.
func (f *file) parseParquet() (*table, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data from %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader for %s: %w", f.path, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader for %s: %w", f.path, err)
	}

	arrowTable, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table from %s: %w", f.path, err)
	}
	defer arrowTable.Release()

	schema := arrowTable.Schema()
	headers := make(header, schema.NumFields())
	for i, field := range schema.Fields() {
		headers[i] = field.Name
	}
	if err := validateColumnNames(headers); err != nil {
		return nil, err
	}

	tableReader := array.NewTableReader(arrowTable, 0)
	defer tableReader.Release()

	var records []Record
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := batch.NumRows()
		for i := int64(0); i < numRows; i++ {
			row := make(Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowValueString(col, int(i))
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parquet records from %s: %w", f.path, err)
	}

	return newTable(identifierFromPath(f.path).String(), headers, records), nil
}

// arrowValueString renders one cell of an arrow column as its string form.
// NULL becomes the empty string, matching how empty delimited fields read.
func arrowValueString(col arrow.Array, row int) string {
	if col.IsNull(row) {
		return ""
	}
	return col.ValueStr(row)
}
