package csvsql

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
)

// FileType represents a supported input format, detected from the file
// extension. Compression is tracked separately.
type FileType int

const (
	// FileTypeCSV represents comma-separated files
	FileTypeCSV FileType = iota
	// FileTypeTSV represents tab-separated files
	FileTypeTSV
	// FileTypeXLSX represents Excel workbooks
	FileTypeXLSX
	// FileTypeParquet represents Apache Parquet files
	FileTypeParquet
	// FileTypeUnsupported represents everything else
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extSQL is the generated script extension
	extSQL = ".sql"
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// String returns the format name.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// isDelimited reports whether the format is row-by-row delimited text.
func (ft FileType) isDelimited() bool {
	return ft == FileTypeCSV || ft == FileTypeTSV
}

// delimiter returns the field delimiter for delimited formats.
func (ft FileType) delimiter() rune {
	if ft == FileTypeTSV {
		return tsvDelimiter
	}
	return csvDelimiter
}

// detectFileType detects format and compression from a file path.
// "data.csv.gz" yields (FileTypeCSV, CompressionGZ).
func detectFileType(path string) (FileType, CompressionType) {
	compression := CompressionNone
	switch {
	case strings.HasSuffix(path, extGZ):
		path, compression = strings.TrimSuffix(path, extGZ), CompressionGZ
	case strings.HasSuffix(path, extBZ2):
		path, compression = strings.TrimSuffix(path, extBZ2), CompressionBZ2
	case strings.HasSuffix(path, extXZ):
		path, compression = strings.TrimSuffix(path, extXZ), CompressionXZ
	case strings.HasSuffix(path, extZSTD):
		path, compression = strings.TrimSuffix(path, extZSTD), CompressionZSTD
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case extCSV:
		return FileTypeCSV, compression
	case extTSV:
		return FileTypeTSV, compression
	case extXLSX:
		return FileTypeXLSX, compression
	case extParquet:
		return FileTypeParquet, compression
	default:
		return FileTypeUnsupported, compression
	}
}

// isSupportedFile checks if the file has a supported extension.
func isSupportedFile(path string) bool {
	ft, _ := detectFileType(strings.ToLower(path))
	return ft != FileTypeUnsupported
}

// file represents a source file that can be read as tabular data.
type file struct {
	path        string
	fileType    FileType
	compression CompressionType
	// encoding is the text encoding of delimited content; nil means UTF-8
	encoding encoding.Encoding
}

// newFile creates a new file, rejecting unsupported extensions.
func newFile(path string, enc encoding.Encoding) (*file, error) {
	fileType, compression := detectFileType(path)
	if fileType == FileTypeUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return &file{
		path:        path,
		fileType:    fileType,
		compression: compression,
		encoding:    enc,
	}, nil
}

// openReader opens the file and layers decompression and, for delimited
// formats, text decoding on top. The closer releases every layer and must be
// called on all exit paths.
func (f *file) openReader() (io.Reader, func() error, error) {
	osFile, err := os.Open(f.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}

	reader, decompressorClose, err := f.compression.newDecompressor(osFile)
	if err != nil {
		_ = osFile.Close() // Ignore close error during error handling
		return nil, nil, err
	}

	// XLSX and Parquet are binary containers; encoding applies to text only.
	if f.fileType.isDelimited() {
		reader = decodeReader(reader, f.encoding)
	}

	closer := func() error {
		_ = decompressorClose() // Ignore decompressor close error in cleanup
		return osFile.Close()
	}
	return reader, closer, nil
}

// readHeader returns the first record of the file as column names.
// Returns ErrEmptyFile when there is no first record.
func (f *file) readHeader() (header, error) {
	if !f.fileType.isDelimited() {
		t, err := f.parseTable()
		if err != nil {
			return nil, err
		}
		return t.getHeader(), nil
	}

	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = f.fileType.delimiter()
	csvReader.FieldsPerRecord = -1

	record, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", f.path, err)
	}
	return newHeader(record), nil
}

// forEachRecord reads the file a second time, skips the header record, and
// calls fn for every data row in file order. Rows with a field count that
// differs from the header are passed through unvalidated.
func (f *file) forEachRecord(fn func(Record) error) error {
	if !f.fileType.isDelimited() {
		t, err := f.parseTable()
		if err != nil {
			return err
		}
		for _, record := range t.getRecords() {
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}

	reader, closer, err := f.openReader()
	if err != nil {
		return err
	}
	defer closer()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = f.fileType.delimiter()
	csvReader.FieldsPerRecord = -1

	if _, err := csvReader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
		}
		return fmt.Errorf("failed to read header of %s: %w", f.path, err)
	}

	for {
		record, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read record from %s: %w", f.path, err)
		}
		if err := fn(newRecord(record)); err != nil {
			return err
		}
	}
}

// parseTable reads the whole file into a table structure. Used by the
// summary component and by formats that need random access.
func (f *file) parseTable() (*table, error) {
	switch f.fileType {
	case FileTypeCSV, FileTypeTSV:
		return f.parseDelimited()
	case FileTypeXLSX:
		return f.parseXLSX()
	case FileTypeParquet:
		return f.parseParquet()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.path)
	}
}

// parseDelimited parses a CSV or TSV file wholesale.
func (f *file) parseDelimited() (*table, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer()

	csvReader := csv.NewReader(reader)
	csvReader.Comma = f.fileType.delimiter()
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
	}

	if err := validateColumnNames(records[0]); err != nil {
		return nil, err
	}

	tableRecords := make([]Record, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		tableRecords = append(tableRecords, newRecord(records[i]))
	}
	return newTable(identifierFromPath(f.path).String(), newHeader(records[0]), tableRecords), nil
}

// parseXLSX parses the first sheet of an Excel workbook. Rows shorter than
// the header are padded with empty fields.
func (f *file) parseXLSX() (*table, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer()

	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file %s: %w", f.path, err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: no sheets in %s", ErrEmptyFile, f.path)
	}

	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s of %s", ErrEmptyFile, sheetNames[0], f.path)
	}

	if err := validateColumnNames(rows[0]); err != nil {
		return nil, err
	}

	headers := newHeader(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for j := range headers {
			if j < len(row) {
				record[j] = row[j]
			}
		}
		records = append(records, record)
	}
	return newTable(identifierFromPath(f.path).String(), headers, records), nil
}
