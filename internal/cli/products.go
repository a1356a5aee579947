package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// queryFlags are the three query inputs shared by search and export.
type queryFlags struct {
	stock string
	order string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stock, "stock", "", "only products with this stock (Available or Unavailable)")
	cmd.Flags().StringVar(&f.order, "order", "", "order by name (asc or desc)")
}

func (f *queryFlags) params(term string) (models.QueryParams, error) {
	stock, err := models.ParseStockFilter(f.stock)
	if err != nil {
		return models.QueryParams{}, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	order, err := models.ParseSortOrder(f.order)
	if err != nil {
		return models.QueryParams{}, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	return models.QueryParams{SearchTerm: term, StockFilter: stock, Order: order}, nil
}

func newSearchCmd(open opener) *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search products by name, description, stock or cantidad",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) > 0 {
				term = args[0]
			}
			params, err := qf.params(term)
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				products, err := svcs.Inventory.Query(ctx, params)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderProducts(products))
				return nil
			})
		},
	}
	qf.register(cmd)
	return cmd
}

// formFlags binds the four product fields.
func formFlags(cmd *cobra.Command, f *appsvcs.Form) {
	cmd.Flags().StringVar(&f.Name, "name", "", "product name (unique)")
	cmd.Flags().StringVar(&f.Description, "description", "", "product description")
	cmd.Flags().StringVar(&f.Stock, "stock", "", "Available or Unavailable")
	cmd.Flags().StringVar(&f.Cantidad, "cantidad", "", "quantity on hand")
}

func newCreateCmd(open opener) *cobra.Command {
	var form appsvcs.Form
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := appsvcs.ParseDraft(form.Name, form.Description, form.Stock, form.Cantidad)
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				p, err := svcs.Inventory.Create(ctx, draft)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderOK(fmt.Sprintf("Producto registrado con id %d", p.ID)))
				return nil
			})
		},
	}
	formFlags(cmd, &form)
	return cmd
}

func newUpdateCmd(open opener) *cobra.Command {
	var form appsvcs.Form
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite a product, recording the quantity change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			draft, err := appsvcs.ParseDraft(form.Name, form.Description, form.Stock, form.Cantidad)
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				if err := svcs.Inventory.Update(ctx, id, draft); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderOK(fmt.Sprintf("Producto %d actualizado", id)))
				return nil
			})
		},
	}
	formFlags(cmd, &form)
	return cmd
}

func newDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product; its change history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				if err := svcs.Inventory.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderOK(fmt.Sprintf("Producto %d eliminado", id)))
				return nil
			})
		},
	}
}

func newChangesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "changes",
		Short: "Show the quantity change history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				records, err := svcs.Inventory.ListChanges(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderChanges(records))
				return nil
			})
		},
	}
}

func parseID(s string) (models.ProductID, error) {
	id, err := models.ParseProductID(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	return id, nil
}
