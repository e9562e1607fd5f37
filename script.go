package csvsql

import (
	"fmt"
	"os"
	"strings"
)

// Script fragment layout constants. The generated statements separate items
// with ", \n\t" so every column or row lands on its own indented line.
const (
	fragmentIndent    = "\t"
	fragmentSeparator = ", \n\t"
	statementEnd      = ";\n\n"
)

// columnDefinitions formats column names into the column-list fragment of the
// CREATE TABLE statement. Every column is typed TEXT; no inference is applied
// to the generated script. Double quotes inside a column name are passed
// through unescaped, a known limitation carried over deliberately.
func columnDefinitions(h header) string {
	defs := make([]string, 0, len(h))
	for _, name := range h {
		defs = append(defs, `"`+name+`" TEXT`)
	}
	return fragmentIndent + strings.Join(defs, fragmentSeparator)
}

// quotedColumnList formats column names into the INSERT column list:
// "a", "b", "c".
func quotedColumnList(h header) string {
	quoted := make([]string, 0, len(h))
	for _, name := range h {
		quoted = append(quoted, `"`+name+`"`)
	}
	return strings.Join(quoted, ", ")
}

// escapeLiteral doubles embedded single quotes so arbitrary text can be
// embedded as a SQL string literal: O'Brien -> O''Brien.
func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// formatValueRow formats one data row as a parenthesized literal tuple on its
// own indented line. The field count is taken as-is; arity mismatches against
// the header are not validated here.
func formatValueRow(record Record) string {
	fields := make([]string, 0, len(record))
	for _, value := range record {
		fields = append(fields, "'"+escapeLiteral(value)+"'")
	}
	return "\n" + fragmentIndent + "(" + strings.Join(fields, ", ") + ")"
}

// joinValueRows joins formatted rows with ", " in file order, which fixes
// the insertion order of the generated script.
func joinValueRows(rows []string) string {
	return strings.Join(rows, ", ")
}

// buildScript composes the three script fragments in fixed order: schema
// creation, table creation, data insertion. Each fragment is terminated by a
// semicolon and a blank line; each is independently valid SQL.
func buildScript(schema, tableName Identifier, h header, values string) string {
	qualified := tableName.Qualify(schema)

	var b strings.Builder
	b.WriteString("CREATE SCHEMA " + schema.String())
	b.WriteString(statementEnd)

	b.WriteString("DROP TABLE IF EXISTS " + qualified + ";\n")
	b.WriteString("CREATE TABLE " + qualified + " (\n")
	b.WriteString(columnDefinitions(h))
	b.WriteString("\n)")
	b.WriteString(statementEnd)

	b.WriteString("INSERT INTO " + qualified + "\n")
	b.WriteString(fragmentIndent + "(" + quotedColumnList(h) + ")\n")
	b.WriteString("VALUES" + values)
	b.WriteString(";")

	return b.String()
}

// writeScript writes the assembled script to path, overwriting any existing
// file, encoding text as configured and compressing when requested. A failure
// mid-write leaves the partial file in place; there is no atomic-write
// guarantee.
func writeScript(path, script string, opts ConvertOptions) error {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return err
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer, compressorClose, err := opts.Compression.newCompressor(outFile)
	if err != nil {
		_ = outFile.Close() // Ignore close error during error handling
		return err
	}
	encoded, encoderClose := encodeWriter(writer, enc)

	// Close order matters: encoder flushes into the compressor, the
	// compressor flushes into the file.
	if _, err := encoded.Write([]byte(script)); err != nil {
		_ = encoderClose()
		_ = compressorClose()
		_ = outFile.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := encoderClose(); err != nil {
		_ = compressorClose()
		_ = outFile.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := compressorClose(); err != nil {
		_ = outFile.Close()
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	return outFile.Close()
}
