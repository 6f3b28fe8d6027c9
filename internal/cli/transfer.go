package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"roster/internal/service"
)

func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import students from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open csv", err)
			}
			defer f.Close()

			return opts.withApp(func(app *App) error {
				report, err := service.NewImportService(app.Controller).ImportCSV(cmd.Context(), f)
				if err != nil {
					return actionError("import csv", err)
				}
				return opts.formatter(cmd).Print(report, func(w io.Writer) error {
					fmt.Fprintf(w, "imported %d of %d rows\n", report.Imported, report.Total)
					for _, s := range report.Skipped {
						fmt.Fprintf(w, "  line %d: %s\n", s.Line, s.Message)
					}
					return nil
				})
			})
		},
	}
}

func NewExportCommand(opts *RootOptions) *cobra.Command {
	var as, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as csv, json or yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return WrapExitError(ExitCommandError, "create output file", err)
				}
				defer f.Close()
				w = f
			}

			return opts.withApp(func(app *App) error {
				records, err := app.Controller.Records(cmd.Context())
				if err != nil {
					return actionError("export roster", err)
				}
				switch as {
				case "csv":
					return service.ExportCSV(w, records)
				case "json":
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				case "yaml":
					enc := yaml.NewEncoder(w)
					enc.SetIndent(2)
					if err := enc.Encode(records); err != nil {
						return err
					}
					return enc.Close()
				default:
					return WrapExitError(ExitCommandError, fmt.Sprintf("unknown export type %q (csv|json|yaml)", as), nil)
				}
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", "csv", "export type (csv|json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
