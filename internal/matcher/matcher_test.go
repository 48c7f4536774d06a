package matcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlaurent/stmt-categorize/internal/dictionary"
	"mlaurent/stmt-categorize/internal/logging"
)

func loadDictionary(t *testing.T, general, industry string) *dictionary.Dictionary {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, dictionary.GeneralFile), []byte(general), 0o600)
	require.NoError(t, err)

	industryID := ""
	if industry != "" {
		industryID = "restaurant"
		err = os.WriteFile(filepath.Join(dir, "restaurant_categories.csv"), []byte(industry), 0o600)
		require.NoError(t, err)
	}

	d, err := dictionary.Load(dir, industryID, &logging.MockLogger{})
	require.NoError(t, err)
	return d
}

func TestMatchExact(t *testing.T) {
	d := loadDictionary(t, "pattern,category\nMIGROS,Groceries\n", "")
	m := New(d, 0.8)

	match, ok := m.Match("MIGROS")
	require.True(t, ok)
	assert.Equal(t, "Groceries", match.Category)
	assert.Equal(t, 1.0, match.Confidence)
}

func TestMatchSubsetPattern(t *testing.T) {
	d := loadDictionary(t, "pattern,category\nAMAZON,Shopping\n", "")
	m := New(d, 0.8)

	match, ok := m.Match("AMAZON MKTPLACE")
	require.True(t, ok)
	assert.Equal(t, "Shopping", match.Category)
	assert.GreaterOrEqual(t, match.Confidence, 0.8)
}

func TestMatchReorderedTokens(t *testing.T) {
	d := loadDictionary(t, "pattern,category\nCOOP CITY,Groceries\n", "")
	m := New(d, 0.8)

	match, ok := m.Match("CITY COOP")
	require.True(t, ok)
	assert.Equal(t, "Groceries", match.Category)
	assert.Equal(t, 1.0, match.Confidence)
}

func TestMatchBelowThreshold(t *testing.T) {
	d := loadDictionary(t, "pattern,category\nMIGROS,Groceries\n", "")
	m := New(d, 0.8)

	_, ok := m.Match("ZVV TICKET VENDING")
	assert.False(t, ok)
}

func TestMatchEmptyInput(t *testing.T) {
	d := loadDictionary(t, "pattern,category\nMIGROS,Groceries\n", "")
	m := New(d, 0.8)

	_, ok := m.Match("")
	assert.False(t, ok)

	_, ok = m.Match("   ")
	assert.False(t, ok)
}

func TestMatchIndustryBeatsGeneralOnTie(t *testing.T) {
	d := loadDictionary(t,
		"pattern,category\nCOFFEE SHOP,Dining\n",
		"pattern,category\nCOFFEE SHOP,Supplies\n",
	)
	m := New(d, 0.8)

	match, ok := m.Match("Coffee Shop")
	require.True(t, ok)
	assert.Equal(t, "Supplies", match.Category)
	assert.True(t, match.Entry.Scope.IsIndustry())
}

func TestMatchEarliestWinsOnEqualScope(t *testing.T) {
	// "ac" scores 0.5 against both "aa" and "ab"; the first-loaded entry
	// must win so results are reproducible across runs.
	d := loadDictionary(t, "pattern,category\naa,First\nab,Second\n", "")
	m := New(d, 0.4)

	match, ok := m.Match("ac")
	require.True(t, ok)
	assert.Equal(t, "First", match.Category)
}

func TestMatchDeterministic(t *testing.T) {
	d := loadDictionary(t,
		"pattern,category\nMIGROS,Groceries\nCOOP,Groceries\nSBB,Transport\n",
		"pattern,category\nSYSCO,Supplies\n",
	)
	m := New(d, 0.5)

	first, okFirst := m.Match("MIGROS ZUERICH")
	for i := 0; i < 10; i++ {
		match, ok := m.Match("MIGROS ZUERICH")
		assert.Equal(t, okFirst, ok)
		assert.Equal(t, first, match)
	}
}

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "migros zuerich", b: "migros zuerich", want: 1.0},
		{name: "reordered", a: "zuerich migros", b: "migros zuerich", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "migros", b: "", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSortRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatioSubset(t *testing.T) {
	assert.Equal(t, 1.0, TokenSetRatio("amazon mktplace", "amazon"))
	assert.Equal(t, 1.0, TokenSetRatio("amazon", "amazon mktplace"))
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"migros", "coop"},
		{"sbb easyride", "sbb"},
		{"a", "zzzz"},
		{"coffee shop zuerich", "shop coffee"},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("abc"), []rune("abc")))
	assert.Equal(t, 3, levenshtein([]rune(""), []rune("abc")))
	assert.Equal(t, 1, levenshtein([]rune("kitten"), []rune("sitten")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
}
