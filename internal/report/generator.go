// Package report renders breakdown trees as a terminal tree, JSON, CSV or XLSX.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/budget-rollup/internal/budgeterror"
	"fjacquet/budget-rollup/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
)

// SupportedFormats lists the formats Generate accepts.
var SupportedFormats = []string{FormatTable, FormatJSON, FormatCSV, FormatXLSX}

// Styles used by the table format.
type Styles struct {
	Title      lipgloss.Style
	Chapter    lipgloss.Style
	Subchapter lipgloss.Style
	Functional lipgloss.Style
	Economic   lipgloss.Style
	Enumerator lipgloss.Style
}

// DefaultStyles returns the table styles.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true),
		Chapter:    lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
		Subchapter: lipgloss.NewStyle().Foreground(lipgloss.Color("#bbbbbb")),
		Functional: lipgloss.NewStyle(),
		Economic:   lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Enumerator: lipgloss.NewStyle().Foreground(lipgloss.Color("#5c5c5c")).MarginRight(1),
	}
}

// Generator renders breakdowns.
type Generator struct {
	logger logging.Logger
	styles Styles
}

// NewGenerator creates a Generator with the default styles.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Generator{
		logger: logger.WithField("component", "ReportGenerator"),
		styles: DefaultStyles(),
	}
}

// Generate renders the breakdowns in format. A single breakdown renders as a
// JSON object, several as an array. XLSX gets one sheet per breakdown.
func (g *Generator) Generate(format string, breakdowns ...Breakdown) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case FormatTable:
		out = []byte(g.generateTable(breakdowns))
	case FormatJSON:
		out, err = g.generateJSON(breakdowns)
	case FormatCSV:
		out, err = g.generateCSV(breakdowns)
	case FormatXLSX:
		out, err = g.generateXLSX(breakdowns)
	default:
		return nil, &budgeterror.UnsupportedFormatError{Format: format, Supported: SupportedFormats}
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug("Generated breakdown report",
		logging.F(logging.FieldFormat, format),
		logging.F(logging.FieldCount, len(breakdowns)))
	return out, nil
}

func (g *Generator) generateJSON(breakdowns []Breakdown) ([]byte, error) {
	var v interface{} = breakdowns
	if len(breakdowns) == 1 {
		v = breakdowns[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *Generator) generateTable(breakdowns []Breakdown) string {
	var sb strings.Builder
	for i, b := range breakdowns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(g.renderTree(b).String())
	}
	return sb.String()
}

func (g *Generator) renderTree(b Breakdown) *tree.Tree {
	title := fmt.Sprintf("%s  %s of %s", strings.ToUpper(b.Category.Label()), FormatAmount(b.Total), FormatAmount(b.Base))
	if b.Query != "" {
		title += fmt.Sprintf("  (query %q)", b.Query)
	}

	root := tree.Root(g.styles.Title.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(g.styles.Enumerator)

	for _, ch := range b.Chapters {
		chNode := tree.Root(g.styles.Chapter.Render(nodeLabel(ch.Prefix, ch.Description, ch.TotalAmount, ch.Share)))
		for _, sub := range ch.Subchapters {
			subNode := tree.Root(g.styles.Subchapter.Render(nodeLabel(sub.Code, sub.Name, sub.TotalAmount, sub.Share)))
			g.addFunctionals(subNode, sub.Functionals)
			chNode.Child(subNode)
		}
		g.addFunctionals(chNode, ch.Functionals)
		root.Child(chNode)
	}
	return root
}

func (g *Generator) addFunctionals(parent *tree.Tree, functionals []FunctionalView) {
	for _, f := range functionals {
		fnNode := tree.Root(g.styles.Functional.Render(nodeLabel(f.Code, f.Name, f.TotalAmount, f.Share)))
		for _, e := range f.Economics {
			fnNode.Child(g.styles.Economic.Render(nodeLabel(e.Code, e.Name, e.Amount, e.Share)))
		}
		parent.Child(fnNode)
	}
}

func nodeLabel(code, name string, amount, share float64) string {
	return fmt.Sprintf("%s %s  %s (%.2f%%)", code, name, FormatAmount(amount), share)
}

func (g *Generator) generateCSV(breakdowns []Breakdown) ([]byte, error) {
	var rows []Row
	for _, b := range breakdowns {
		rows = append(rows, Flatten(b)...)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) generateXLSX(breakdowns []Breakdown) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	defaultSheet := f.GetSheetName(0)
	used := map[string]int{}
	for i, b := range breakdowns {
		sheet := sheetName(b, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, Flatten(b)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		g.logger.WithError(err).Error("Failed to write XLSX report")
		return nil, fmt.Errorf("failed to write XLSX report: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(b Breakdown, used map[string]int) string {
	name := b.Category.Label()
	if name == "" {
		name = "breakdown"
	}
	used[name]++
	if n := used[name]; n > 1 {
		name = fmt.Sprintf("%s %d", name, n)
	}
	return name
}

func writeSheet(f *excelize.File, sheet string, rows []Row) error {
	if err := f.SetSheetRow(sheet, "A1", &rowHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.values()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
