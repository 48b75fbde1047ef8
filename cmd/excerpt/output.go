package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// printJSON writes v as indented JSON, highlighted when colour is enabled.
func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	b = append(b, '\n')
	if !color.NoColor {
		if err := quick.Highlight(w, string(b), "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = w.Write(b)
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func yesNo(b bool) string {
	if b {
		return color.GreenString("yes")
	}
	return color.YellowString("no")
}
