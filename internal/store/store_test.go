package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arff/internal/arff"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const exportDoc = `% fixture
@relation weather
@attribute 'temp' numeric
@attribute 'count' integer
@attribute 'outlook' {sunny,rainy}
@data
20.5,3,sunny
?,?,rainy
`

func TestExport(t *testing.T) {
	s := openTestStore(t)
	d, err := arff.Parse(exportDoc)
	require.NoError(t, err)
	// The relation name is sanitized into a table name.
	d.Schema.Relation = "weather station"

	n, err := s.Export(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM "weather_station"`).Scan(&count))
	assert.Equal(t, 2, count)

	var temp float64
	var cnt int64
	var outlook string
	row := s.DB().QueryRow(`SELECT "temp", "count", "outlook" FROM "weather_station" LIMIT 1`)
	require.NoError(t, row.Scan(&temp, &cnt, &outlook))
	assert.Equal(t, 20.5, temp)
	assert.Equal(t, int64(3), cnt)
	assert.Equal(t, "sunny", outlook)
}

func TestExport_MissingBecomesNull(t *testing.T) {
	s := openTestStore(t)
	d, err := arff.Parse(exportDoc)
	require.NoError(t, err)

	_, err = s.Export(context.Background(), d)
	require.NoError(t, err)

	var nulls int
	require.NoError(t, s.DB().QueryRow(
		`SELECT COUNT(*) FROM "weather" WHERE "temp" IS NULL AND "count" IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestExport_ReplacesPreviousExport(t *testing.T) {
	s := openTestStore(t)
	d, err := arff.Parse(exportDoc)
	require.NoError(t, err)

	_, err = s.Export(context.Background(), d)
	require.NoError(t, err)
	_, err = s.Export(context.Background(), d)
	require.NoError(t, err)

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM "weather"`).Scan(&count))
	assert.Equal(t, 2, count, "re-export replaces, never appends")
}

func TestExport_SparseRows(t *testing.T) {
	s := openTestStore(t)
	d, err := arff.Parse("@relation r\n@attribute a numeric\n@attribute b string\n@data\n{0 1.5}\n")
	require.NoError(t, err)

	n, err := s.Export(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The absent attribute lands as NULL, same as a missing one.
	var b any
	require.NoError(t, s.DB().QueryRow(`SELECT "b" FROM "r"`).Scan(&b))
	assert.Nil(t, b)
}

func TestExport_EmptySchema(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Export(context.Background(), arff.New("empty"))
	require.Error(t, err)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "weather_station", tableName("weather station"))
	assert.Equal(t, "abc", tableName("abc"))
	assert.Equal(t, "a_b", tableName("a!!b"))
	assert.Equal(t, "dataset", tableName("!!!"))
	assert.Equal(t, "dataset", tableName(""))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idem.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}
