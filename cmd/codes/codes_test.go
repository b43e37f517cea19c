package codes_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-rollup/cmd/codes"
	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "codes CODE...", codes.Cmd.Use)
	assert.NotNil(t, codes.Cmd.RunE)
	assert.Error(t, codes.Cmd.Args(codes.Cmd, nil))
	assert.NoError(t, codes.Cmd.Args(codes.Cmd, []string{"07.01"}))
	assert.NotNil(t, codes.Cmd.Flags().Lookup("export"))
}

const treeYAML = `- code: "07"
  description: Impozite pe proprietate
  children:
    - code: "07.01"
      description: Impozit pe cladiri
- code: "65"
  description: Invatamant
`

func TestExport(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "functional.yaml")
	require.NoError(t, os.WriteFile(source, []byte(treeYAML), 0600))

	cfg := config.Default()
	cfg.Classification.FunctionalFile = source
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)

	names, err := c.GetStore().LoadNames()
	require.NoError(t, err)

	target := filepath.Join(dir, "out", "names.yaml")
	require.NoError(t, codes.Export(c, names, target))
	assert.True(t, logger.HasEntry("INFO", "Exported classification names"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	exported, err := store.ParseNames(data)
	require.NoError(t, err)
	assert.Equal(t, names, exported)
	assert.Equal(t, "Impozit pe cladiri", exported.Subchapters["07.01"])

	assert.Error(t, codes.Export(c, names, ""))
}

func TestDescribeAndPrint(t *testing.T) {
	names := store.NewNames()
	names.Chapters["07"] = "Impozite pe proprietate"
	names.Subchapters["07.01"] = "Impozit pe cladiri"

	infos := codes.Describe(names, []string{"07.01.01", "65.03", "00.00.00", "n/a"})
	require.Len(t, infos, 4)
	assert.Equal(t, "07", infos[0].Chapter)
	assert.True(t, infos[2].Sentinel)

	var buf bytes.Buffer
	require.NoError(t, codes.Print(&buf, infos))
	assert.Equal(t,
		"07.01.01: chapter 07 Impozite pe proprietate, subchapter 07.01 Impozit pe cladiri\n"+
			"65.03: chapter 65 -, subchapter 65.03 -\n"+
			"\"00.00.00\": unclassified sentinel\n"+
			"\"n/a\": no chapter prefix\n",
		buf.String())
}
