package csvsql

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// columnType represents the storage type inferred for a column. The generated
// PostgreSQL script always uses TEXT; inferred types drive the summary
// component and the in-memory SQLite loading.
type columnType int

const (
	// columnTypeText represents TEXT column type
	columnTypeText columnType = iota
	// columnTypeInteger represents INTEGER column type
	columnTypeInteger
	// columnTypeReal represents REAL column type
	columnTypeReal
	// columnTypeDatetime represents datetime stored as TEXT in ISO8601 format
	columnTypeDatetime
)

const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// String returns the SQL type string for the column type.
func (ct columnType) String() string {
	switch ct {
	case columnTypeInteger:
		return sqlTypeInteger
	case columnTypeReal:
		return sqlTypeReal
	case columnTypeText, columnTypeDatetime:
		return sqlTypeText // datetime is stored as TEXT in ISO8601 form
	default:
		return sqlTypeText
	}
}

// name returns the human-readable type label used in summaries.
func (ct columnType) name() string {
	if ct == columnTypeDatetime {
		return "DATETIME"
	}
	return ct.String()
}

// isNumeric reports whether values of this type can feed numeric statistics.
func (ct columnType) isNumeric() bool {
	return ct == columnTypeInteger || ct == columnTypeReal
}

// columnInfo pairs a column name with its inferred type.
type columnInfo struct {
	Name string
	Type columnType
}

// Inference tuning constants
const (
	// maxInferenceSample limits how many values are sampled per column
	maxInferenceSample = 1000
	// typeConfidenceThreshold is the minimum share of values that must match
	// a type before it is assigned
	typeConfidenceThreshold = 0.8
	// textTerminationShare is the share of text values that ends inference early
	textTerminationShare = 0.5
	// minDatetimeLength and maxDatetimeLength bound plausible datetime values
	minDatetimeLength = 4
	maxDatetimeLength = 35
)

// datetimePattern pairs a shape regexp with the formats that can parse it.
type datetimePattern struct {
	pattern *regexp.Regexp
	formats []string
}

// Shapes ordered most common first so matching terminates early.
var datetimePatterns = []datetimePattern{
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
}

// isDatetime checks if a string value represents a datetime.
func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) < minDatetimeLength || len(value) > maxDatetimeLength {
		return false
	}

	// Cheap pre-check before touching any regexp: a datetime needs at least
	// one digit and one separator.
	hasDigit, hasSeparator := false, false
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '-' || r == '/' || r == ':' || r == 'T' || r == ' ' || r == '.':
			hasSeparator = true
		}
		if hasDigit && hasSeparator {
			break
		}
	}
	if !hasDigit || !hasSeparator {
		return false
	}

	for _, dp := range datetimePatterns {
		if dp.pattern.MatchString(value) {
			for _, format := range dp.formats {
				if _, err := time.Parse(format, value); err == nil {
					return true
				}
			}
		}
	}
	return false
}

// isInteger checks if a value parses as a 64-bit integer.
func isInteger(value string) bool {
	if len(value) == 0 {
		return false
	}
	first := value[0]
	if first != '+' && first != '-' && (first < '0' || first > '9') {
		return false
	}
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

// isFloat checks if a value parses as a float.
func isFloat(value string) bool {
	hasDigit := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// classifyValue determines the type of a single value.
func classifyValue(value string) columnType {
	if isDatetime(value) {
		return columnTypeDatetime
	}
	if isInteger(value) {
		return columnTypeInteger
	}
	if isFloat(value) {
		return columnTypeReal
	}
	return columnTypeText
}

// sampleValues returns an evenly stepped sample of values to keep inference
// cheap on large columns.
func sampleValues(values []string) []string {
	if len(values) <= maxInferenceSample {
		return values
	}
	step := len(values) / maxInferenceSample
	samples := make([]string, 0, maxInferenceSample)
	for i := 0; i < len(values) && len(samples) < maxInferenceSample; i += step {
		samples = append(samples, values[i])
	}
	return samples
}

// inferColumnType infers the column type from a slice of string values.
// Empty values are ignored; any significant share of text values forces TEXT.
func inferColumnType(values []string) columnType {
	if len(values) == 0 {
		return columnTypeText
	}

	counts := make(map[columnType]int, 4)
	nonEmpty := 0
	for _, value := range sampleValues(values) {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		nonEmpty++
		counts[classifyValue(value)]++

		// Early termination once text values dominate.
		if counts[columnTypeText] > 0 && float64(counts[columnTypeText])/float64(nonEmpty) > textTerminationShare {
			return columnTypeText
		}
	}
	if nonEmpty == 0 {
		return columnTypeText
	}
	return selectColumnType(counts, nonEmpty)
}

// selectColumnType picks the best type from per-type counts.
func selectColumnType(counts map[columnType]int, total int) columnType {
	if counts[columnTypeText] > 0 {
		return columnTypeText
	}

	datetimeShare := float64(counts[columnTypeDatetime]) / float64(total)
	realShare := float64(counts[columnTypeReal]) / float64(total)
	integerShare := float64(counts[columnTypeInteger]) / float64(total)

	if datetimeShare >= typeConfidenceThreshold {
		return columnTypeDatetime
	}
	// Mixed integers and reals read as REAL.
	if realShare > 0 && (realShare+integerShare) >= typeConfidenceThreshold {
		return columnTypeReal
	}
	if integerShare >= typeConfidenceThreshold {
		return columnTypeInteger
	}
	return columnTypeText
}

// inferColumnsInfo infers per-column type information from header and records.
// Columns with no data default to TEXT.
func inferColumnsInfo(header header, records []Record) []columnInfo {
	if len(header) == 0 {
		return nil
	}

	columns := make([]columnInfo, len(header))
	for i, name := range header {
		columns[i] = columnInfo{Name: name, Type: columnTypeText}
	}
	if len(records) == 0 {
		return columns
	}

	for i := range header {
		values := make([]string, 0, len(records))
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i].Type = inferColumnType(values)
	}
	return columns
}
