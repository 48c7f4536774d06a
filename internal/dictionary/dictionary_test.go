package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/perrors"
)

func writeDict(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadGeneralOnly(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nMIGROS,Groceries\nSBB,Transport\n")

	d, err := Load(dir, "", &logging.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	entries := d.Entries()
	assert.Equal(t, "migros", entries[0].Key)
	assert.Equal(t, "Groceries", entries[0].Category)
	assert.Equal(t, ScopeGeneral, entries[0].Scope)
}

func TestLoadWithIndustryLayer(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nMIGROS,Groceries\n")
	writeDict(t, dir, "restaurant_categories.csv", "pattern,category\nSYSCO,Supplies\n")

	d, err := Load(dir, "restaurant", &logging.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	entries := d.Entries()
	assert.Equal(t, ScopeGeneral, entries[0].Scope)
	assert.Equal(t, IndustryScope("restaurant"), entries[1].Scope)
	assert.True(t, entries[1].Scope.IsIndustry())
}

func TestLoadMissingGeneralIsFatal(t *testing.T) {
	_, err := Load(t.TempDir(), "", &logging.MockLogger{})
	var cfgErr *perrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoadMissingIndustryIsOptional(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nMIGROS,Groceries\n")

	logger := &logging.MockLogger{}
	d, err := Load(dir, "retail", logger)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.NotEmpty(t, logger.EntriesByLevel("WARN"))
}

func TestLoadMalformedRowIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nMIGROS,\n")

	_, err := Load(dir, "", &logging.MockLogger{})
	var cfgErr *perrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoadLastWinsWithinScope(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile,
		"pattern,category\nMIGROS,Groceries\nSBB,Transport\nMigros,Shopping\n")

	d, err := Load(dir, "", &logging.MockLogger{})
	require.NoError(t, err)
	// The override replaces the category but keeps the original position.
	require.Equal(t, 2, d.Len())
	entries := d.Entries()
	assert.Equal(t, "migros", entries[0].Key)
	assert.Equal(t, "Shopping", entries[0].Category)
	assert.Equal(t, "sbb", entries[1].Key)
}

func TestLoadSamePatternAcrossScopesKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nCOFFEE SHOP,Dining\n")
	writeDict(t, dir, "restaurant_categories.csv", "pattern,category\nCOFFEE SHOP,Supplies\n")

	d, err := Load(dir, "restaurant", &logging.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestCategoriesDistinctInLoadOrder(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile,
		"pattern,category\nMIGROS,Groceries\nCOOP,Groceries\nSBB,Transport\n")
	writeDict(t, dir, "restaurant_categories.csv", "pattern,category\nSYSCO,Supplies\n")

	d, err := Load(dir, "restaurant", &logging.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Transport", "Supplies"}, d.Categories())
}

func TestEntriesReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, GeneralFile, "pattern,category\nMIGROS,Groceries\n")

	d, err := Load(dir, "", &logging.MockLogger{})
	require.NoError(t, err)

	entries := d.Entries()
	entries[0].Category = "Tampered"
	assert.Equal(t, "Groceries", d.Entries()[0].Category)
}
