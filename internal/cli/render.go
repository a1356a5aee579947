package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/export"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	okStyle     = lipgloss.NewStyle().Foreground(success)
	errStyle    = lipgloss.NewStyle().Foreground(danger).Bold(true)
)

// renderTable draws an export table with a rounded border.
func renderTable(t export.Table) string {
	if len(t.Rows) == 0 {
		return titleStyle.Render(t.Title) + "\n" + dimStyle.Render("(no rows)") + "\n"
	}
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dim)).
		Headers(t.Header...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return titleStyle.Render(t.Title) + "\n" + tbl.String() + "\n"
}

func renderProducts(products []models.Product) string {
	return renderTable(export.ProductsTable(products))
}

func renderChanges(records []models.ChangeRecord) string {
	return renderTable(export.ChangesTable(records))
}

func renderOK(msg string) string {
	return okStyle.Render(msg) + "\n"
}

func renderError(err error) string {
	return errStyle.Render("error:") + " " + err.Error() + "\n"
}
