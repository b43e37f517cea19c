// Package codes explains how classification codes are normalized and named
package codes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fjacquet/budget-rollup/cmd/common"
	"fjacquet/budget-rollup/cmd/root"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/store"

	"github.com/spf13/cobra"
)

var exportPath string

// Cmd represents the codes command
var Cmd = &cobra.Command{
	Use:   "codes CODE...",
	Short: "Show how classification codes resolve to chapters",
	Long: `Show the trimmed form, chapter and subchapter prefixes and the names found in
the classification file for each code. Sentinel codes (empty, "0", "00.00.00")
are reported as such. --export writes the loaded names, whatever form the
classification file uses, to FILE in the flat chapters/subchapters form.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && exportPath == "" {
			return errors.New("requires at least one code or --export")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		names, err := c.GetStore().LoadNames()
		if err != nil {
			return err
		}
		if exportPath != "" {
			if err := Export(c, names, exportPath); err != nil {
				return err
			}
		}
		if len(args) == 0 {
			return nil
		}
		infos := Describe(names, args)
		if root.SharedFlags.Format == "json" {
			out, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return err
			}
			return common.WriteOutput(append(out, '\n'), root.SharedFlags.Output, cmd.OutOrStdout(), c.GetLogger())
		}
		return Print(cmd.OutOrStdout(), infos)
	},
}

func init() {
	Cmd.Flags().StringVar(&exportPath, "export", "", "Write the classification names to FILE in flat form")
}

// Export writes names to path through the container's classification store.
func Export(c *container.Container, names store.Names, path string) error {
	if err := c.GetStore().SaveNames(names, path); err != nil {
		return fmt.Errorf("error exporting classification names: %w", err)
	}
	c.GetLogger().Info("Exported classification names",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, names.Len()))
	return nil
}

// Describe resolves every code against names.
func Describe(names store.Names, codes []string) []store.CodeInfo {
	infos := make([]store.CodeInfo, 0, len(codes))
	for _, code := range codes {
		infos = append(infos, names.Describe(code))
	}
	return infos
}

// Print writes one line per code.
func Print(w io.Writer, infos []store.CodeInfo) error {
	for _, info := range infos {
		var line string
		switch {
		case info.Sentinel:
			line = fmt.Sprintf("%q: unclassified sentinel", info.Raw)
		case info.Chapter == "":
			line = fmt.Sprintf("%q: no chapter prefix", info.Raw)
		default:
			line = fmt.Sprintf("%s: chapter %s %s", info.Trimmed, info.Chapter, orDash(info.ChapterName))
			if info.Subchapter != "" {
				line += fmt.Sprintf(", subchapter %s %s", info.Subchapter, orDash(info.SubchapterName))
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
