package container

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "default config",
			config: config.Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.Same(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetStore())
			assert.NotNil(t, c.GetAggregator())
			assert.NotNil(t, c.GetReader())
			assert.NotNil(t, c.GetGenerator())
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainerWithLogger_NilLogger(t *testing.T) {
	_, err := NewContainerWithLogger(config.Default(), nil)
	assert.Error(t, err)
}

func TestContainer_UsesConfiguredLabels(t *testing.T) {
	cfg := config.Default()
	cfg.Labels.Unclassified = "Neclasificat"
	cfg.Labels.Unknown = "Necunoscut"

	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	labels := c.GetAggregator().Labels()
	assert.Equal(t, "Neclasificat", labels.Unclassified)
	assert.Equal(t, "Necunoscut", labels.Unknown)
}

func TestContainer_UsesConfiguredClassificationFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chapters:\n  \"65\": Invatamant\n"), 0600))

	cfg := config.Default()
	cfg.Classification.FunctionalFile = path
	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	names, err := c.GetStore().LoadNames()
	require.NoError(t, err)
	assert.Equal(t, "Invatamant", names.Chapters["65"])
}

func TestContainer_NewDashboard(t *testing.T) {
	cfg := config.Default()
	cfg.Search.DebounceMS = int(time.Hour / time.Millisecond)
	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	d := c.NewDashboard(store.NewNames(), "", "cladiri")
	defer d.Close()
	d.SetLineItems([]models.LineItem{
		{AccountCategory: models.AccountCategoryExpense, Amount: 10, FunctionalCode: "65.01", FunctionalName: "Scoli"},
	})

	exp := d.Expenses().Snapshot()
	require.Len(t, exp.Grouped, 1)
	assert.Equal(t, "Unclassified", exp.Grouped[0].Description)
	assert.True(t, d.Income().Snapshot().SearchActive)

	d.Expenses().SetSearchTerm("scoli")
	assert.Empty(t, d.Expenses().Snapshot().DebouncedTerm, "debounce comes from config")
}
