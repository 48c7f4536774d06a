package container

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlaurent/stmt-categorize/internal/config"
	"mlaurent/stmt-categorize/internal/dictionary"
	"mlaurent/stmt-categorize/internal/perrors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	dictDir := filepath.Join(root, "dictionaries")
	indDir := filepath.Join(root, "industries")
	require.NoError(t, os.MkdirAll(dictDir, 0o750))
	require.NoError(t, os.MkdirAll(indDir, 0o750))

	require.NoError(t, os.WriteFile(
		filepath.Join(dictDir, dictionary.GeneralFile),
		[]byte("pattern,category\nMIGROS,Groceries\n"),
		0o600,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(indDir, "restaurant.yaml"),
		[]byte("default_category: Miscellaneous\n"+
			"line_items: [Expenses]\n"+
			"categories:\n"+
			"  - name: Groceries\n"+
			"    line_item: Expenses\n"+
			"  - name: Miscellaneous\n"+
			"    line_item: Expenses\n"),
		0o600,
	))

	v := viper.New()
	v.SetDefault("log.level", "error")
	v.SetDefault("log.format", "text")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("ai.confidence", 0.9)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("categorization.confidence_threshold", 0.8)
	v.SetDefault("categorization.default_category", "Uncategorized")
	v.SetDefault("categorization.workers", 2)
	v.SetDefault("dictionaries.dir", dictDir)
	v.SetDefault("industries.dir", indDir)

	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))
	return &cfg
}

func TestNewContainerWiresEverything(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), "restaurant")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, c.Close())
	}()

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetDictionary())
	assert.NotNil(t, c.GetIndustryConfig())
	assert.NotNil(t, c.GetMapper())
	assert.NotNil(t, c.GetCategorizer())
	assert.NotNil(t, c.GetMatcher())
	assert.NotNil(t, c.GetPipeline())

	// AI disabled: the categorizer must run in fallback mode.
	assert.False(t, c.GetCategorizer().Enabled())
	assert.Equal(t, "Miscellaneous", c.GetCategorizer().Default())
}

func TestNewContainerNilConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), nil, "restaurant")
	assert.Error(t, err)
}

func TestNewContainerMissingIndustry(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig(t), "")
	assert.Error(t, err)
}

func TestNewContainerUnknownIndustryConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig(t), "retail")
	var cfgErr *perrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}
