package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoepiqian/bufferplan/internal/ingest"
	"github.com/zoepiqian/bufferplan/pkg/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <orders-file> <output-file>",
	Short: "Convert an order file to the export template offline",
	Long: "Reads a CSV/XLSX/XLS order file with the required columns and " +
		"writes it in the fixed export template layout without starting the server.",
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv, xlsx or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	rows, err := ingest.ReadFile(in, args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = out.Close() }()

	tmpl := export.ToTemplate(rows, time.Now())
	switch exportFormat {
	case "csv":
		err = export.WriteCSV(out, tmpl)
	case "xlsx":
		err = export.WriteXLSX(out, tmpl)
	case "json":
		err = export.WriteJSON(out, tmpl)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(tmpl), args[1])
	return nil
}
