package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

const shellHelp = `Commands:
  search <term>        filter by free text (empty clears)
  filter <stock>       Available, Unavailable or empty to clear
  order <asc|desc>     order by name (empty restores id order)
  list                 show the current results
  create               register a product (prompts for fields)
  update <id>          overwrite a product (prompts for fields)
  delete <id>          remove a product
  changes              show the change history
  help                 show this text
  quit                 leave the shell
`

func newShellCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session over one live result set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, open, func(ctx context.Context, svcs *appsvcs.Services) error {
				s := &shell{
					ctl: appsvcs.NewController(svcs.Inventory),
					svc: svcs.Inventory,
					in:  bufio.NewScanner(cmd.InOrStdin()),
					out: cmd.OutOrStdout(),
				}
				return s.run(ctx)
			})
		},
	}
}

// shell is a line-oriented front end for a Controller. Errors are printed
// and the session continues.
type shell struct {
	ctl *appsvcs.Controller
	svc *appsvcs.InventoryService
	in  *bufio.Scanner
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	if err := s.ctl.Refresh(ctx); err != nil {
		fmt.Fprint(s.out, renderError(err))
	} else {
		fmt.Fprint(s.out, renderProducts(s.ctl.Results()))
	}

	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(verb) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(s.out, shellHelp)
		case "list":
			fmt.Fprint(s.out, renderProducts(s.ctl.Results()))
		case "search":
			s.report(s.ctl.SetSearchTerm(ctx, arg), "")
		case "filter":
			s.report(s.ctl.SetStockFilter(ctx, arg), "")
		case "order":
			s.report(s.ctl.SetOrder(ctx, arg), "")
		case "create":
			form, ok := s.promptForm(appsvcs.Form{})
			if !ok {
				return s.in.Err()
			}
			p, err := s.ctl.Create(ctx, form)
			s.report(err, fmt.Sprintf("Producto registrado con id %d", p.ID))
		case "update":
			id, err := parseID(arg)
			if err != nil {
				fmt.Fprint(s.out, renderError(err))
				continue
			}
			current, err := s.svc.GetByID(ctx, id)
			if err != nil {
				fmt.Fprint(s.out, renderError(err))
				continue
			}
			form, ok := s.promptForm(appsvcs.Form{
				Name:        current.Name.String(),
				Description: current.Description,
				Stock:       current.Stock.String(),
				Cantidad:    current.Cantidad.String(),
			})
			if !ok {
				return s.in.Err()
			}
			s.report(s.ctl.Update(ctx, id, form), fmt.Sprintf("Producto %d actualizado", id))
		case "delete":
			id, err := parseID(arg)
			if err != nil {
				fmt.Fprint(s.out, renderError(err))
				continue
			}
			s.report(s.ctl.Delete(ctx, id), fmt.Sprintf("Producto %d eliminado", id))
		case "changes":
			records, err := s.svc.ListChanges(ctx)
			if err != nil {
				fmt.Fprint(s.out, renderError(err))
				continue
			}
			fmt.Fprint(s.out, renderChanges(records))
		default:
			fmt.Fprintf(s.out, "unknown command %q, type help\n", verb)
		}
	}
}

// report prints err, or the success message followed by the refreshed results.
func (s *shell) report(err error, success string) {
	if err != nil {
		fmt.Fprint(s.out, renderError(err))
		return
	}
	if success != "" {
		fmt.Fprint(s.out, renderOK(success))
	}
	fmt.Fprint(s.out, renderProducts(s.ctl.Results()))
}

// promptForm asks for each field, offering the value in def. An empty answer
// keeps the default.
func (s *shell) promptForm(def appsvcs.Form) (appsvcs.Form, bool) {
	fields := []struct {
		label string
		value *string
	}{
		{"Nombre", &def.Name},
		{"Descripción", &def.Description},
		{"Stock (Available/Unavailable)", &def.Stock},
		{"Cantidad", &def.Cantidad},
	}
	for _, f := range fields {
		if *f.value != "" {
			fmt.Fprintf(s.out, "%s [%s]: ", f.label, *f.value)
		} else {
			fmt.Fprintf(s.out, "%s: ", f.label)
		}
		line, ok := s.readLine()
		if !ok {
			return appsvcs.Form{}, false
		}
		if v := strings.TrimSpace(line); v != "" {
			*f.value = v
		}
	}
	return def, true
}

func (s *shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}
