package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputTable, "Output format: table or json.")
}

func checkOutput(output string) error {
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("unknown output format %q, must be %q or %q", output, outputTable, outputJSON)
	}
	return nil
}

func newTable(header ...any) *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = 48
	t.Separator = "  "
	t.AddRow(header...)
	return t
}

func printTable(w io.Writer, t *uitable.Table) error {
	_, err := fmt.Fprintln(w, t)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
