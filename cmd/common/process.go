// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"

	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/lineitem"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/models"
	"fjacquet/budget-rollup/internal/store"
	"fjacquet/budget-rollup/internal/validation"
)

// Inputs is everything a breakdown is computed from.
type Inputs struct {
	Items []models.LineItem
	Names store.Names
}

// LoadInputs reads the line items from inputFile (falling back to the
// configured input file) and the classification names from the store.
func LoadInputs(c *container.Container, inputFile string) (Inputs, error) {
	if c == nil {
		return Inputs{}, fmt.Errorf("container not initialized")
	}
	if inputFile == "" {
		inputFile = c.GetConfig().Input.File
	}
	return Load(c.GetReader(), c.GetStore(), inputFile)
}

// Load reads the line items in inputFile and the names from source.
func Load(reader *lineitem.Reader, source store.NameSource, inputFile string) (Inputs, error) {
	if err := validation.IsValidInputFile(inputFile); err != nil {
		return Inputs{}, err
	}
	items, err := reader.ReadFile(inputFile)
	if err != nil {
		return Inputs{}, err
	}
	names, err := source.LoadNames()
	if err != nil {
		return Inputs{}, fmt.Errorf("error loading classification names: %w", err)
	}
	return Inputs{Items: items, Names: names}, nil
}

// WriteOutput writes data to outputFile, or to stdout when outputFile is empty.
func WriteOutput(data []byte, outputFile string, stdout io.Writer, log logging.Logger) error {
	if outputFile == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0600); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	log.Info("Wrote report", logging.F(logging.FieldOutputFile, outputFile))
	return nil
}
