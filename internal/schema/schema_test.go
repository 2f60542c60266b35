package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arff/internal/value"
)

func buildSchema(t *testing.T) *Schema {
	t.Helper()
	s := New("weather")
	_, err := s.Define("temp", value.KindNumeric)
	require.NoError(t, err)
	_, err = s.Define("count", value.KindInteger)
	require.NoError(t, err)
	_, err = s.DefineNominal("outlook", "sunny", "rainy")
	require.NoError(t, err)
	_, err = s.DefineDate("ts", "")
	require.NoError(t, err)
	return s
}

func TestDefine(t *testing.T) {
	s := buildSchema(t)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"temp", "count", "outlook", "ts"}, s.Names())

	a, ok := s.Lookup("outlook")
	require.True(t, ok)
	assert.True(t, a.Allows("sunny"))
	assert.False(t, a.Allows("cloudy"))

	assert.Equal(t, 1, s.Index("count"))
	assert.Equal(t, -1, s.Index("nope"))
}

func TestDefine_DuplicateName(t *testing.T) {
	s := buildSchema(t)
	_, err := s.Define("temp", value.KindString)
	require.Error(t, err)
	assert.Equal(t, 4, s.Len(), "failed define must not grow the schema")
}

func TestSetClass_MovesLast(t *testing.T) {
	s := buildSchema(t)
	require.NoError(t, s.SetClass("count"))
	assert.Equal(t, "count", s.Class())
	assert.Equal(t, []string{"temp", "outlook", "ts", "count"}, s.Names())

	// Subsequent defines keep the class attribute pinned to the end.
	_, err := s.Define("wind", value.KindNumeric)
	require.NoError(t, err)
	assert.Equal(t, []string{"temp", "outlook", "ts", "wind", "count"}, s.Names())
}

func TestSetClass_Undefined(t *testing.T) {
	s := buildSchema(t)
	require.Error(t, s.SetClass("nope"))
}

func TestAlphabetize(t *testing.T) {
	s := buildSchema(t)
	require.NoError(t, s.SetClass("count"))
	s.Alphabetize()
	assert.Equal(t, []string{"outlook", "temp", "ts", "count"}, s.Names())
}

func TestAddValues(t *testing.T) {
	s := buildSchema(t)
	require.NoError(t, s.AddValues("outlook", "overcast", "sunny"))
	a, _ := s.Lookup("outlook")
	assert.Equal(t, []string{"overcast", "rainy", "sunny"}, a.SortedValues())

	require.Error(t, s.AddValues("temp", "x"), "only nominal attributes have value sets")
	require.Error(t, s.AddValues("nope", "x"))
}

func TestSortedValues_ExcludesMissing(t *testing.T) {
	s := buildSchema(t)
	a, _ := s.Lookup("outlook")
	a.AddValue(value.Missing)
	assert.Equal(t, []string{"rainy", "sunny"}, a.SortedValues())
}

func TestClone_Independent(t *testing.T) {
	s := buildSchema(t)
	require.NoError(t, s.SetClass("count"))

	c := s.Clone()
	assert.Equal(t, s.Names(), c.Names())
	assert.Equal(t, s.Class(), c.Class())

	require.NoError(t, c.AddValues("outlook", "overcast"))
	_, err := c.Define("extra", value.KindString)
	require.NoError(t, err)

	orig, _ := s.Lookup("outlook")
	assert.False(t, orig.Allows("overcast"), "clone mutations must not leak back")
	assert.Equal(t, 4, s.Len())
}

func TestTokenValue(t *testing.T) {
	s := buildSchema(t)

	got, err := s.TokenValue("count", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = s.TokenValue("temp", "1.5")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(got.(decimal.Decimal)))

	got, err = s.TokenValue("outlook", "1:rainy")
	require.NoError(t, err)
	assert.Equal(t, "rainy", got)

	got, err = s.TokenValue("outlook", value.Missing)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.TokenValue("outlook", "1:cloudy")
	require.Error(t, err, "prediction outside the declared set")

	_, err = s.TokenValue("outlook", "rainy")
	require.Error(t, err, "nominal tokens carry an index prefix")

	_, err = s.TokenValue("ts", "2020-01-02")
	require.Error(t, err)

	_, err = s.TokenValue("nope", "1")
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	s := buildSchema(t)
	fp := s.Fingerprint()
	assert.Equal(t, fp, s.Fingerprint(), "fingerprint is deterministic")

	c := s.Clone()
	assert.Equal(t, fp, c.Fingerprint())

	require.NoError(t, c.AddValues("outlook", "overcast"))
	assert.NotEqual(t, fp, c.Fingerprint())
}
