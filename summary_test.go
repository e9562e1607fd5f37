package csvsql

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("Basic per-column counts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "basic.csv", "id,name\n1,alice\n2,bob\n3,\n")

		summary, err := Summarize(src)
		require.NoError(t, err, "Summarize() should succeed")

		assert.Equal(t, "basic", summary.Table, "Table name should come from the filename")
		assert.Equal(t, 3, summary.RowCount, "Three data rows expected")
		require.Len(t, summary.Columns, 2, "Two columns expected")

		id := summary.Columns[0]
		assert.Equal(t, "id", id.Name, "Column order should follow the header")
		assert.Equal(t, "INTEGER", id.DataType, "id should infer as integer")
		assert.Equal(t, int64(3), id.NonNullCount, "All id values present")
		assert.False(t, id.UniqueCount.Valid, "Unique count not requested")
		assert.Nil(t, id.Verbose, "Verbose stats not requested")

		name := summary.Columns[1]
		assert.Equal(t, "TEXT", name.DataType, "name should infer as text")
		assert.Equal(t, int64(2), name.NonNullCount, "Empty field should count as NULL")
	})

	t.Run("Unique counts on request", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "unique.csv", "country\nus\nus\njp\n")

		summary, err := Summarize(src, NewSummaryOptions().WithUniqueCountColumns("country"))
		require.NoError(t, err, "Summarize() should succeed")

		require.Len(t, summary.Columns, 1, "One column expected")
		require.True(t, summary.Columns[0].UniqueCount.Valid, "Unique count should be present")
		assert.Equal(t, int64(2), summary.Columns[0].UniqueCount.Int64, "Two distinct countries")
	})

	t.Run("Skipped columns are omitted", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "skip.csv", "id,secret\n1,x\n")

		summary, err := Summarize(src, NewSummaryOptions().WithSkipColumns("secret"))
		require.NoError(t, err, "Summarize() should succeed")

		require.Len(t, summary.Columns, 1, "Skipped column should not appear")
		assert.Equal(t, "id", summary.Columns[0].Name, "Remaining column should survive")
	})

	t.Run("Verbose statistics", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "verbose.csv",
			"value\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")

		summary, err := Summarize(src, NewSummaryOptions().WithVerboseColumns("value"))
		require.NoError(t, err, "Summarize() should succeed")

		require.Len(t, summary.Columns, 1, "One column expected")
		stats := summary.Columns[0].Verbose
		require.NotNil(t, stats, "Verbose stats should be present")

		assert.InDelta(t, 1.0, stats.Minimum, 1e-9, "Minimum of 1..10")
		assert.InDelta(t, 10.0, stats.Maximum, 1e-9, "Maximum of 1..10")
		assert.InDelta(t, 5.5, stats.Mean, 1e-9, "Mean of 1..10")
		assert.InDelta(t, 5.5, stats.Median, 1e-9, "Median interpolates between 5 and 6")

		require.Len(t, stats.Percentiles, 3, "Three percentile levels expected")
		p75 := stats.Percentiles[0]
		assert.InDelta(t, 0.75, p75.Level, 1e-9, "First level is the 75th percentile")
		assert.InDelta(t, 7.75, p75.Value, 1e-9, "75th percentile of 1..10 interpolates to 7.75")
		assert.Equal(t, int64(7), p75.UniqueBelow, "Seven distinct values below 7.75")

		p90 := stats.Percentiles[1]
		assert.InDelta(t, 9.1, p90.Value, 1e-9, "90th percentile of 1..10 interpolates to 9.1")
		assert.Equal(t, int64(9), p90.UniqueBelow, "Nine distinct values below 9.1")

		p95 := stats.Percentiles[2]
		assert.InDelta(t, 9.55, p95.Value, 1e-9, "95th percentile of 1..10 interpolates to 9.55")
	})

	t.Run("Skip and unique overlap rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "overlap.csv", "a\n1\n")

		opts := NewSummaryOptions().WithSkipColumns("a").WithUniqueCountColumns("a")
		_, err := Summarize(src, opts)
		assert.ErrorIs(t, err, ErrColumnOverlap, "Column in both lists should fail")
	})

	t.Run("Skip and verbose overlap rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "overlap2.csv", "a\n1\n")

		opts := NewSummaryOptions().WithSkipColumns("a").WithVerboseColumns("a")
		_, err := Summarize(src, opts)
		assert.ErrorIs(t, err, ErrColumnOverlap, "Column in both lists should fail")
	})

	t.Run("Unknown skip column rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "unknown.csv", "a\n1\n")

		_, err := Summarize(src, NewSummaryOptions().WithSkipColumns("missing"))
		assert.ErrorIs(t, err, ErrUnknownColumn, "Skipping a column not in the header should fail")
	})

	t.Run("Unknown verbose column is ignored", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "lenient.csv", "a\n1\n")

		summary, err := Summarize(src, NewSummaryOptions().WithVerboseColumns("missing"))
		require.NoError(t, err, "Verbose request for an absent column is not an error")
		require.Len(t, summary.Columns, 1, "One column expected")
		assert.Nil(t, summary.Columns[0].Verbose, "Existing column should stay non-verbose")
	})

	t.Run("All-null verbose column has no stats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "nulls.csv", "a,b\n1,\n2,\n")

		summary, err := Summarize(src, NewSummaryOptions().WithVerboseColumns("b"))
		require.NoError(t, err, "Summarize() should succeed")
		require.Len(t, summary.Columns, 2, "Two columns expected")
		assert.Nil(t, summary.Columns[1].Verbose, "No values means no verbose stats")
	})
}

func TestSummarizeContext_cancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeTempFile(t, dir, "cancel.csv", "a\n1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SummarizeContext(ctx, src)
	assert.ErrorIs(t, err, context.Canceled, "Cancelled context should abort the summary")
}

func TestSummaryOptions_chaining(t *testing.T) {
	t.Parallel()

	opts := NewSummaryOptions().
		WithSkipColumns("a", "b").
		WithUniqueCountColumns("c").
		WithVerboseColumns("d").
		WithEncoding("latin1")

	assert.Equal(t, []string{"a", "b"}, opts.SkipColumns, "SkipColumns should accumulate")
	assert.Equal(t, []string{"c"}, opts.UniqueCountColumns, "UniqueCountColumns should be set")
	assert.Equal(t, []string{"d"}, opts.VerboseColumns, "VerboseColumns should be set")
	assert.Equal(t, "latin1", opts.Encoding, "Encoding should be set")
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []float64
		q      float64
		want   float64
	}{
		{name: "single value", sorted: []float64{7}, q: 0.9, want: 7},
		{name: "median of even count", sorted: []float64{1, 2, 3, 4}, q: 0.5, want: 2.5},
		{name: "median of odd count", sorted: []float64{1, 2, 3}, q: 0.5, want: 2},
		{name: "zeroth quantile", sorted: []float64{1, 2, 3}, q: 0, want: 1},
		{name: "full quantile", sorted: []float64{1, 2, 3}, q: 1, want: 3},
		{name: "interpolated", sorted: []float64{10, 20}, q: 0.75, want: 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := quantile(tt.sorted, tt.q)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("quantile(%v, %v) = %v, want %v", tt.sorted, tt.q, got, tt.want)
			}
		})
	}
}

func TestSummary_String(t *testing.T) {
	t.Parallel()

	t.Run("Plain table", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "render.csv", "id,name\n1,alice\n")

		summary, err := Summarize(src)
		require.NoError(t, err, "Summarize() should succeed")

		rendered := summary.String()
		assert.Contains(t, rendered, "Column", "Header row expected")
		assert.Contains(t, rendered, "Non-Null Count", "Count column expected")
		assert.Contains(t, rendered, "id", "Column names should appear")
		assert.NotContains(t, rendered, "Unique Count", "Unrequested sections should not render")
	})

	t.Run("Mixed verbose render uses NaN for absent stats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeTempFile(t, dir, "mixed.csv", "num,txt\n1,a\n2,b\n")

		summary, err := Summarize(src, NewSummaryOptions().WithVerboseColumns("num"))
		require.NoError(t, err, "Summarize() should succeed")

		rendered := summary.String()
		assert.Contains(t, rendered, "75th Percentile", "Percentile columns should render")
		lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
		require.GreaterOrEqual(t, len(lines), 3, "Header plus two column rows expected")
		assert.Contains(t, lines[2], "NaN", "Non-verbose column row should render NaN cells")
	})
}
