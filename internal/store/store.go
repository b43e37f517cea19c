// Package store loads the classification name maps (chapter code -> description,
// subchapter code -> description) that label the breakdown tree.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/textutils"

	"gopkg.in/yaml.v3"
)

// DefaultFunctionalFile is looked up when no file is configured.
const DefaultFunctionalFile = "functional-classifications.yaml"

// NameMap maps a normalized classification code to its description.
type NameMap map[string]string

// Lookup returns the description for code. Blank descriptions count as absent.
func (m NameMap) Lookup(code string) (string, bool) {
	name, ok := m[code]
	if !ok || textutils.RobustTrim(name) == "" {
		return "", false
	}
	return name, true
}

// Names holds both lookup tables. Either map may be empty.
type Names struct {
	Chapters    NameMap `yaml:"chapters" json:"chapters"`
	Subchapters NameMap `yaml:"subchapters" json:"subchapters"`
}

// NewNames returns empty, non-nil maps.
func NewNames() Names {
	return Names{
		Chapters:    NameMap{},
		Subchapters: NameMap{},
	}
}

// Len returns the number of entries in both maps.
func (n Names) Len() int {
	return len(n.Chapters) + len(n.Subchapters)
}

// NameSource provides classification names.
type NameSource interface {
	LoadNames() (Names, error)
}

// ClassificationStore reads classification names from disk.
type ClassificationStore struct {
	FunctionalFile string
	logger         logging.Logger
}

// NewClassificationStore creates a store for the given functional classification file.
func NewClassificationStore(functionalFile string, logger logging.Logger) *ClassificationStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ClassificationStore{
		FunctionalFile: functionalFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a file in the standard locations.
func (s *ClassificationStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "budget-rollup", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadNames reads and flattens the functional classification file.
// A missing file is not an error: it yields empty maps, and every chapter
// then falls back to the unclassified label.
func (s *ClassificationStore) LoadNames() (Names, error) {
	filename := s.FunctionalFile
	if filename == "" {
		filename = DefaultFunctionalFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Classification file not found, chapters will be unclassified",
				logging.F(logging.FieldInputFile, filename))
			return NewNames(), nil
		}
		return Names{}, &budgeterror.ClassificationError{FilePath: filename, Err: err}
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path chosen by the operator
	if err != nil {
		return Names{}, &budgeterror.ClassificationError{FilePath: filePath, Err: err}
	}

	names, err := ParseNames(data)
	if err != nil {
		return Names{}, &budgeterror.ClassificationError{FilePath: filePath, Err: err}
	}

	s.logger.Debug("Loaded classification names",
		logging.F(logging.FieldInputFile, filePath),
		logging.F("chapters", len(names.Chapters)),
		logging.F("subchapters", len(names.Subchapters)))
	return names, nil
}

// SaveNames writes the flat chapters/subchapters form, which ParseNames reads back.
func (s *ClassificationStore) SaveNames(names Names, path string) error {
	if path == "" {
		return fmt.Errorf("no output path given")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("error marshaling classification names: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing classification names: %w", err)
	}

	s.logger.Debug("Saved classification names",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, names.Len()))
	return nil
}

// classificationNode is one entry of the nested classification tree.
// A node may name one code, several codes, or none (a pure grouping node).
type classificationNode struct {
	Code        string               `yaml:"code"`
	Codes       []string             `yaml:"codes"`
	Description string               `yaml:"description"`
	Children    []classificationNode `yaml:"children"`
	Chapters    []classificationNode `yaml:"chapters"`
}

type groupedDocument struct {
	Groups []classificationNode `yaml:"groups"`
}

// ParseNames accepts, in order of preference:
//   - the nested tree: a list of {code, description, children}
//   - the grouped form: {groups: [{chapters: [{code | codes, description}]}]}
//   - the flat form written by SaveNames: {chapters: {...}, subchapters: {...}}
//
// JSON input works too since yaml.v3 reads JSON documents.
func ParseNames(data []byte) (Names, error) {
	names := NewNames()
	if strings.TrimSpace(string(data)) == "" {
		return names, nil
	}

	var tree []classificationNode
	if err := yaml.Unmarshal(data, &tree); err == nil {
		for _, node := range tree {
			names.addNode(node)
		}
		return names, nil
	}

	var grouped groupedDocument
	if err := yaml.Unmarshal(data, &grouped); err == nil && len(grouped.Groups) > 0 {
		for _, node := range grouped.Groups {
			names.addNode(node)
		}
		return names, nil
	}

	var flat Names
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return Names{}, fmt.Errorf("error parsing classification names: %w", err)
	}
	for code, desc := range flat.Chapters {
		names.add(code, desc)
	}
	for code, desc := range flat.Subchapters {
		names.add(code, desc)
	}
	return names, nil
}

func (n Names) addNode(node classificationNode) {
	if node.Code != "" {
		n.add(node.Code, node.Description)
	}
	for _, code := range node.Codes {
		n.add(code, node.Description)
	}
	for _, child := range node.Children {
		n.addNode(child)
	}
	for _, chapter := range node.Chapters {
		n.addChapterNode(chapter)
	}
}

// addChapterNode handles entries of the grouped form, where every listed code
// stands for its two-digit chapter whatever its depth.
func (n Names) addChapterNode(node classificationNode) {
	desc := textutils.RobustTrim(node.Description)
	codes := node.Codes
	if node.Code != "" {
		codes = append([]string{node.Code}, codes...)
	}
	for _, code := range codes {
		prefix, ok := textutils.ChapterPrefix(code)
		if !ok || desc == "" {
			continue
		}
		if _, exists := n.Chapters[prefix]; !exists {
			n.Chapters[prefix] = desc
		}
	}
}

// add files a code under chapters ("NN") or subchapters ("NN.MM").
// Deeper codes are not needed for labelling and are dropped.
// The first description seen for a code wins.
func (n Names) add(code, description string) {
	c := strings.TrimSuffix(textutils.RobustTrim(code), ".")
	desc := textutils.RobustTrim(description)
	if c == "" || desc == "" {
		return
	}

	switch strings.Count(c, ".") {
	case 0:
		if prefix, ok := textutils.ChapterPrefix(c); ok {
			if _, exists := n.Chapters[prefix]; !exists {
				n.Chapters[prefix] = desc
			}
		}
	case 1:
		if sub, ok := textutils.SubchapterPrefix(c); ok && sub == c {
			if _, exists := n.Subchapters[sub]; !exists {
				n.Subchapters[sub] = desc
			}
		}
	}
}
