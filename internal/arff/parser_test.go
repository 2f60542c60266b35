package arff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arff/internal/value"
)

const weatherDoc = `% Weather observations
% Collected hourly
@relation weather
@attribute 'temp' numeric
@attribute 'count' integer
@attribute 'station' string
@attribute 'outlook' {sunny, rainy, overcast}
@data
20.5,3,central,sunny
?,?,north,rainy
`

func TestParse_Dense(t *testing.T) {
	d, err := Parse(weatherDoc)
	require.NoError(t, err)

	assert.Equal(t, "Weather observations\nCollected hourly", d.Comment)
	assert.Equal(t, "weather", d.Schema.Relation)
	assert.Equal(t, []string{"temp", "count", "station", "outlook"}, d.Schema.Names())

	require.Equal(t, 2, d.Len())
	row, ok := d.Rows()[0].(DenseRow)
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(20.5).Equal(row[0].(decimal.Decimal)))
	assert.Equal(t, int64(3), row[1])
	assert.Equal(t, "central", row[2])
	assert.Equal(t, "sunny", row[3])

	row, ok = d.Rows()[1].(DenseRow)
	require.True(t, ok)
	assert.Equal(t, value.Missing, row[0])
	assert.Equal(t, value.Missing, row[1])
}

func TestParse_CommentBlockEndsOnFirstNonComment(t *testing.T) {
	d, err := Parse("% intro\n%bare\n%\n@relation r\n@data\n")
	require.NoError(t, err)
	// The terminating line is re-dispatched, not dropped.
	assert.Equal(t, "r", d.Schema.Relation)
	assert.Equal(t, "intro\nbare\n", d.Comment)
}

func TestParse_NoComment(t *testing.T) {
	d, err := Parse("@relation r\n@data\n")
	require.NoError(t, err)
	assert.Equal(t, "", d.Comment)
	assert.Equal(t, "r", d.Schema.Relation)
}

func TestParse_DirectivesCaseInsensitive(t *testing.T) {
	d, err := Parse("@RELATION r\n@Attribute a numeric\n@DATA\n1.5\n")
	require.NoError(t, err)
	assert.Equal(t, "r", d.Schema.Relation)
	assert.Equal(t, 1, d.Schema.Len())
	assert.Equal(t, 1, d.Len())
}

func TestParse_KindTokensCaseSensitive(t *testing.T) {
	_, err := Parse("@relation r\n@attribute a Numeric\n@data\n")
	require.Error(t, err)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ErrCodeUnsupportedType, ferr.Code)
}

func TestParse_UnknownHeaderLineIgnored(t *testing.T) {
	d, err := Parse("@relation r\n@version 1\nstray text\n@attribute a numeric\n@data\n")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Schema.Len())
}

func TestParse_QuotedAttributeName(t *testing.T) {
	d, err := Parse("@relation r\n@attribute 'pet name' string\n@data\n")
	require.NoError(t, err)
	_, ok := d.Schema.Lookup("pet name")
	assert.True(t, ok)
}

func TestParse_DateAttribute(t *testing.T) {
	d, err := Parse("@relation r\n@attribute ts date \"yyyy-MM-dd\"\n@attribute ts2 date\n@data\n")
	require.NoError(t, err)

	a, ok := d.Schema.Lookup("ts")
	require.True(t, ok)
	assert.Equal(t, value.KindDate, a.Kind)
	assert.Equal(t, "yyyy-MM-dd", a.Pattern)

	a, ok = d.Schema.Lookup("ts2")
	require.True(t, ok)
	assert.Equal(t, "", a.Pattern, "no declared pattern means the default applies")
}

func TestParse_RealIsNumeric(t *testing.T) {
	d, err := Parse("@relation r\n@attribute a real\n@data\n")
	require.NoError(t, err)
	a, _ := d.Schema.Lookup("a")
	assert.Equal(t, value.KindNumeric, a.Kind)
}

func TestParse_UnsupportedAttributeType(t *testing.T) {
	_, err := Parse("@relation r\n@attribute a relational\n@data\n")
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ErrCodeUnsupportedType, ferr.Code)
	assert.Equal(t, 2, ferr.Line)
	assert.Equal(t, "a", ferr.Attribute)
}

func TestParse_DenseLengthMismatchDropsRow(t *testing.T) {
	d, err := Parse("@relation r\n@attribute a numeric\n@attribute b numeric\n@data\n1,2,3\n4,5\n")
	require.NoError(t, err, "a field-count mismatch is a warning, not a failure")
	assert.Equal(t, 1, d.Len(), "only the well-formed row survives")
}

func TestParse_DenseNominalViolationFatal(t *testing.T) {
	_, err := Parse("@relation r\n@attribute a {x,y}\n@data\nz\n")
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ErrCodeNominalValue, ferr.Code)
	assert.Equal(t, "a", ferr.Attribute)
}

func TestParse_DenseBadNumericFatal(t *testing.T) {
	_, err := Parse("@relation r\n@attribute a numeric\n@data\nabc\n")
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ErrCodeBadValue, ferr.Code)
	assert.Equal(t, 4, ferr.Line)
}

func TestParse_DataCommentAndBlankLinesIgnored(t *testing.T) {
	d, err := Parse("@relation r\n@attribute a numeric\n@data\n% trailing comment\n\n1.5\n")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestParse_Sparse(t *testing.T) {
	doc := `@relation r
@attribute a numeric
@attribute b string
@attribute c {x,y}
@data
{0 1.5, 1 "hello world", 2 x}
{0 ?, 2 y}
`
	d, err := Parse(doc)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	row, ok := d.Rows()[0].(SparseRow)
	require.True(t, ok)
	num, ok := row["a"].(value.Numeric)
	require.True(t, ok)
	assert.Equal(t, "1.5", num.Decimal().String())
	str, ok := row["b"].(value.String)
	require.True(t, ok)
	assert.Equal(t, "hello world", str.Text())
	nom, ok := row["c"].(value.Nominal)
	require.True(t, ok)
	assert.Equal(t, "x", nom.Text())

	row, ok = d.Rows()[1].(SparseRow)
	require.True(t, ok)
	// The missing marker always wraps as a String value, whatever the
	// attribute kind.
	miss, ok := row["a"].(value.String)
	require.True(t, ok)
	assert.True(t, miss.IsMissing())
	_, present := row["b"]
	assert.False(t, present, "absent is distinct from missing")
}

func TestParse_SparseEscapedComma(t *testing.T) {
	d, err := Parse("@relation r\n@attribute a string\n@data\n{0 \"one\\, two\"}\n")
	require.NoError(t, err)
	row := d.Rows()[0].(SparseRow)
	str := row["a"].(value.String)
	assert.Equal(t, `one\, two`, str.Text())
}

func TestParse_SparseMalformed(t *testing.T) {
	cases := map[string]string{
		"no closing brace":   "{0 1.5",
		"no index":           "{x 1.5}",
		"index out of range": "{9 1.5}",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("@relation r\n@attribute a numeric\n@data\n" + line + "\n")
			var ferr *Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, ErrCodeMalformedSparse, ferr.Code)
		})
	}
}

func TestParse_SparseBadValueFatal(t *testing.T) {
	_, err := Parse("@relation r\n@attribute a numeric\n@data\n{0 abc}\n")
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ErrCodeBadValue, ferr.Code)
	assert.Equal(t, "a", ferr.Attribute)
}

func TestParseSchema_StopsAtData(t *testing.T) {
	// The garbage after @data must never be reached.
	d, err := ParseSchema("@relation r\n@attribute a numeric\n@data\nnot,a,row\n{broken\n")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Schema.Len())
	assert.Equal(t, 0, d.Len())
}

// Dense rows keep date fields as raw text while sparse rows carry
// typed date values. The asymmetry is deliberate and preserved for
// compatibility with documents written by older tooling.
func TestParse_DenseSparseDateAsymmetry(t *testing.T) {
	doc := `@relation r
@attribute ts date
@attribute v numeric
@data
2020-01-02 03:04:05,1.5
{0 "2020-01-02 03:04:05", 1 2.5}
`
	d, err := Parse(doc)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	dense := d.Rows()[0].(DenseRow)
	_, isText := dense[0].(string)
	assert.True(t, isText, "dense date fields stay raw text")

	sparse := d.Rows()[1].(SparseRow)
	_, isDate := sparse["ts"].(value.Date)
	assert.True(t, isDate, "sparse date fields are typed")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.arff")
	require.NoError(t, os.WriteFile(path, []byte(weatherDoc), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.Path())
	assert.Equal(t, 2, d.Len())

	_, err = Load(filepath.Join(t.TempDir(), "absent.arff"))
	require.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.arff")
	require.NoError(t, os.WriteFile(path, []byte(weatherDoc), 0o644))

	d, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Schema.Len())
	assert.Equal(t, 0, d.Len())
}
