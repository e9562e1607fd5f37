package csvsql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable(t *testing.T) {
	t.Parallel()

	t.Run("Records round-trip through SQLite", func(t *testing.T) {
		t.Parallel()

		db, err := openMemoryDB()
		require.NoError(t, err, "In-memory database should open")
		defer db.Close()

		tbl := newTable("people", newHeader([]string{"id", "name"}), []Record{
			newRecord([]string{"1", "alice"}),
			newRecord([]string{"2", "bob"}),
		})
		require.NoError(t, loadTable(context.Background(), db, tbl), "loadTable() should succeed")

		var count int64
		err = db.QueryRow(`SELECT COUNT(*) FROM "people"`).Scan(&count)
		require.NoError(t, err, "Count query should succeed")
		assert.Equal(t, int64(2), count, "Both records should load")
	})

	t.Run("Empty fields load as NULL", func(t *testing.T) {
		t.Parallel()

		db, err := openMemoryDB()
		require.NoError(t, err, "In-memory database should open")
		defer db.Close()

		tbl := newTable("sparse", newHeader([]string{"a", "b"}), []Record{
			newRecord([]string{"1", ""}),
			newRecord([]string{"2", "x"}),
		})
		require.NoError(t, loadTable(context.Background(), db, tbl), "loadTable() should succeed")

		var nonNull int64
		err = db.QueryRow(`SELECT COUNT("b") FROM "sparse"`).Scan(&nonNull)
		require.NoError(t, err, "Count query should succeed")
		assert.Equal(t, int64(1), nonNull, "Empty field should not count as a value")
	})

	t.Run("Short rows padded to header width", func(t *testing.T) {
		t.Parallel()

		db, err := openMemoryDB()
		require.NoError(t, err, "In-memory database should open")
		defer db.Close()

		tbl := newTable("ragged", newHeader([]string{"a", "b"}), []Record{
			newRecord([]string{"1"}),
		})
		require.NoError(t, loadTable(context.Background(), db, tbl), "Padded insert should succeed")

		var b sql.NullString
		err = db.QueryRow(`SELECT "b" FROM "ragged"`).Scan(&b)
		require.NoError(t, err, "Select should succeed")
		assert.False(t, b.Valid, "Missing trailing field should load as NULL")
	})

	t.Run("Inferred types shape the schema", func(t *testing.T) {
		t.Parallel()

		db, err := openMemoryDB()
		require.NoError(t, err, "In-memory database should open")
		defer db.Close()

		tbl := newTable("typed", newHeader([]string{"n"}), []Record{
			newRecord([]string{"1"}),
			newRecord([]string{"2"}),
		})
		require.NoError(t, loadTable(context.Background(), db, tbl), "loadTable() should succeed")

		var declared string
		err = db.QueryRow(`SELECT type FROM pragma_table_info('typed') WHERE name = 'n'`).Scan(&declared)
		require.NoError(t, err, "Pragma query should succeed")
		assert.Equal(t, "INTEGER", declared, "Integer column should be declared INTEGER")
	})
}
