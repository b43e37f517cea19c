package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestNameMap_Lookup(t *testing.T) {
	m := NameMap{"65": "Invatamant", "66": "  "}

	name, ok := m.Lookup("65")
	assert.True(t, ok)
	assert.Equal(t, "Invatamant", name)

	_, ok = m.Lookup("66")
	assert.False(t, ok, "blank description counts as absent")

	_, ok = m.Lookup("51")
	assert.False(t, ok)

	var nilMap NameMap
	_, ok = nilMap.Lookup("65")
	assert.False(t, ok)
}

func TestParseNames_NestedTree(t *testing.T) {
	content := `
- description: TOTAL VENITURI
  children:
    - code: "01"
      description: Impozit pe profit
      children:
        - code: "01.01"
          description: Impozit pe profit de la agenti economici
        - code: "01.02"
          description: Impozit pe profit de la banci comerciale
    - code: "65"
      description: Invatamant
      children:
        - code: "65.03"
          description: Invatamant liceal
        - code: "65.03.00"
          description: Invatamant liceal general
`
	names, err := ParseNames([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, NameMap{"01": "Impozit pe profit", "65": "Invatamant"}, names.Chapters)
	assert.Equal(t, NameMap{
		"01.01": "Impozit pe profit de la agenti economici",
		"01.02": "Impozit pe profit de la banci comerciale",
		"65.03": "Invatamant liceal",
	}, names.Subchapters)
}

func TestParseNames_JSONTree(t *testing.T) {
	content := `[{"description":"TOTAL","children":[{"code":"51","description":"Administratie publica","children":[{"code":"51.01","description":"Autoritati executive"}]}]}]`

	names, err := ParseNames([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "Administratie publica", names.Chapters["51"])
	assert.Equal(t, "Autoritati executive", names.Subchapters["51.01"])
}

func TestParseNames_GroupedForm(t *testing.T) {
	content := `
groups:
  - description: Servicii publice generale
    chapters:
      - code: "51.02"
        description: Autoritati publice
      - codes: ["54", "55.01"]
        description: Alte servicii
`
	names, err := ParseNames([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, NameMap{
		"51": "Autoritati publice",
		"54": "Alte servicii",
		"55": "Alte servicii",
	}, names.Chapters)
	assert.Empty(t, names.Subchapters)
}

func TestParseNames_FlatForm(t *testing.T) {
	content := `
chapters:
  "65": Invatamant
subchapters:
  "65.04": Invatamant postliceal
  "65.04.01": ignored paragraph
`
	names, err := ParseNames([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, NameMap{"65": "Invatamant"}, names.Chapters)
	assert.Equal(t, NameMap{"65.04": "Invatamant postliceal"}, names.Subchapters)
}

func TestParseNames_EmptyAndInvalid(t *testing.T) {
	names, err := ParseNames([]byte("   \n"))
	require.NoError(t, err)
	assert.Equal(t, 0, names.Len())

	_, err = ParseNames([]byte("chapters: [unterminated"))
	assert.Error(t, err)
}

func TestParseNames_FirstDescriptionWins(t *testing.T) {
	content := `
- code: "65"
  description: Invatamant
- code: "65."
  description: Duplicate
`
	names, err := ParseNames([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "Invatamant", names.Chapters["65"])
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "names.yaml")
	writeFile(t, testFile, "chapters: {}")

	s := NewClassificationStore("", nil)

	file, err := s.FindConfigFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadNames_MissingFileIsEmpty(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewClassificationStore(filepath.Join(t.TempDir(), "missing.yaml"), logger)

	names, err := s.LoadNames()
	require.NoError(t, err)
	assert.Equal(t, 0, names.Len())
	assert.NotNil(t, names.Chapters)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
}

func TestLoadNames_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, path, "chapters: [unterminated")

	_, err := NewClassificationStore(path, nil).LoadNames()
	require.Error(t, err)

	var classErr *budgeterror.ClassificationError
	assert.True(t, errors.As(err, &classErr))
	assert.Equal(t, path, classErr.FilePath)
}

func TestSaveAndLoadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "names.yaml")
	s := NewClassificationStore(path, nil)

	original := Names{
		Chapters:    NameMap{"65": "Invatamant", "07": "Impozite pe proprietate"},
		Subchapters: NameMap{"07.02": "Impozite si taxe pe proprietate"},
	}
	require.NoError(t, s.SaveNames(original, path))

	loaded, err := s.LoadNames()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveNames_NoPath(t *testing.T) {
	assert.Error(t, NewClassificationStore("", nil).SaveNames(NewNames(), ""))
}

func TestMockNameSource(t *testing.T) {
	m := &MockNameSource{Err: errors.New("unavailable")}
	_, err := m.LoadNames()
	assert.Error(t, err)

	m = &MockNameSource{}
	names, err := m.LoadNames()
	require.NoError(t, err)
	assert.NotNil(t, names.Chapters)
	assert.Equal(t, 1, m.Calls)
}
