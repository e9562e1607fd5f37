package csvsql

import (
	"testing"
)

func TestClassifyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  columnType
	}{
		{name: "plain word", value: "hello", want: columnTypeText},
		{name: "integer", value: "42", want: columnTypeInteger},
		{name: "negative integer", value: "-7", want: columnTypeInteger},
		{name: "float", value: "3.14", want: columnTypeReal},
		{name: "scientific notation", value: "1e6", want: columnTypeReal},
		{name: "iso date", value: "2024-01-15", want: columnTypeDatetime},
		{name: "iso timestamp", value: "2024-01-15T10:30:00Z", want: columnTypeDatetime},
		{name: "space separated timestamp", value: "2024-01-15 10:30:00", want: columnTypeDatetime},
		{name: "slash date", value: "1/15/2024", want: columnTypeDatetime},
		{name: "invalid date reads as text", value: "2024-13-45", want: columnTypeText},
		{name: "mixed alphanumeric", value: "abc123", want: columnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyValue(tt.value); got != tt.want {
				t.Errorf("classifyValue(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   columnType
	}{
		{name: "all integers", values: []string{"1", "2", "3"}, want: columnTypeInteger},
		{name: "all floats", values: []string{"1.5", "2.5"}, want: columnTypeReal},
		{name: "integers mixed with floats read as real", values: []string{"1", "2", "3.5", "4.5"}, want: columnTypeReal},
		{name: "all text", values: []string{"a", "b"}, want: columnTypeText},
		{name: "any text forces text", values: []string{"1", "2", "3", "oops", "5"}, want: columnTypeText},
		{name: "all dates", values: []string{"2024-01-01", "2024-01-02"}, want: columnTypeDatetime},
		{name: "empty values ignored", values: []string{"", "1", "", "2"}, want: columnTypeInteger},
		{name: "only empty values", values: []string{"", ""}, want: columnTypeText},
		{name: "no values", values: nil, want: columnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inferColumnType(tt.values); got != tt.want {
				t.Errorf("inferColumnType(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct   columnType
		want string
	}{
		{columnTypeText, "TEXT"},
		{columnTypeInteger, "INTEGER"},
		{columnTypeReal, "REAL"},
		{columnTypeDatetime, "TEXT"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("columnType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestColumnType_name(t *testing.T) {
	t.Parallel()

	if got := columnTypeDatetime.name(); got != "DATETIME" {
		t.Errorf("columnTypeDatetime.name() = %q, want DATETIME", got)
	}
	if got := columnTypeInteger.name(); got != "INTEGER" {
		t.Errorf("columnTypeInteger.name() = %q, want INTEGER", got)
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	t.Run("Per-column types from records", func(t *testing.T) {
		t.Parallel()

		head := newHeader([]string{"id", "price", "name"})
		records := []Record{
			newRecord([]string{"1", "9.99", "apple"}),
			newRecord([]string{"2", "4.50", "pear"}),
		}

		got := inferColumnsInfo(head, records)
		if len(got) != 3 {
			t.Fatalf("expected 3 columns, got %d", len(got))
		}
		if got[0].Type != columnTypeInteger {
			t.Errorf("id column = %v, want integer", got[0].Type)
		}
		if got[1].Type != columnTypeReal {
			t.Errorf("price column = %v, want real", got[1].Type)
		}
		if got[2].Type != columnTypeText {
			t.Errorf("name column = %v, want text", got[2].Type)
		}
	})

	t.Run("No records defaults to text", func(t *testing.T) {
		t.Parallel()

		got := inferColumnsInfo(newHeader([]string{"a"}), nil)
		if len(got) != 1 || got[0].Type != columnTypeText {
			t.Errorf("expected single TEXT column, got %v", got)
		}
	})

	t.Run("Short rows do not panic", func(t *testing.T) {
		t.Parallel()

		head := newHeader([]string{"a", "b"})
		records := []Record{newRecord([]string{"1"})}

		got := inferColumnsInfo(head, records)
		if len(got) != 2 {
			t.Fatalf("expected 2 columns, got %d", len(got))
		}
		if got[1].Type != columnTypeText {
			t.Errorf("column without data = %v, want text", got[1].Type)
		}
	})
}

func TestSampleValues(t *testing.T) {
	t.Parallel()

	t.Run("Small input returned whole", func(t *testing.T) {
		t.Parallel()

		values := []string{"a", "b", "c"}
		got := sampleValues(values)
		if len(got) != 3 {
			t.Errorf("expected all values, got %d", len(got))
		}
	})

	t.Run("Large input capped", func(t *testing.T) {
		t.Parallel()

		values := make([]string, maxInferenceSample*3)
		got := sampleValues(values)
		if len(got) > maxInferenceSample {
			t.Errorf("expected at most %d samples, got %d", maxInferenceSample, len(got))
		}
	})
}
