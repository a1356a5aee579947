package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/export"
)

func newExportCmd(open opener) *cobra.Command {
	var (
		qf     queryFlags
		search string
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:       "export <products|changes>",
		Short:     "Write the product list or the change history as PDF or CSV",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"products", "changes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
			}

			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				var t export.Table
				switch args[0] {
				case "products":
					params, err := qf.params(search)
					if err != nil {
						return err
					}
					products, err := svcs.Inventory.Query(ctx, params)
					if err != nil {
						return err
					}
					t = export.ProductsTable(products)
				case "changes":
					records, err := svcs.Inventory.ListChanges(ctx)
					if err != nil {
						return err
					}
					t = export.ChangesTable(records)
				default:
					return fmt.Errorf("%w: unknown export %q, want products or changes", inventorydomain.ErrValidation, args[0])
				}

				if out == "-" {
					return export.Write(cmd.OutOrStdout(), f, t)
				}
				path := out
				if path == "" {
					path = t.FileNameFor(f)
				}
				if err := writeFile(path, func(w io.Writer) error { return export.Write(w, f, t) }); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderOK("Exportado a "+path))
				return nil
			})
		},
	}
	qf.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "products only: substring to match")
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: standard file name, - for stdout)")
	return cmd
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
