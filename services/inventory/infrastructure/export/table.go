// Package export renders product lists and change history as downloadable
// documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// ParseFormat accepts "pdf" and "csv" (case-insensitive). Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("format must be pdf or csv, got %q", s)
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// Table is a titled grid of already formatted cells.
type Table struct {
	Title    string
	FileName string // without extension
	Header   []string
	Rows     [][]string
}

// FileNameFor returns the download name of t in format f.
func (t Table) FileNameFor(f Format) string {
	return t.FileName + "." + string(f)
}

// ProductsTable lays out products with the columns of the inventory list.
func ProductsTable(products []models.Product) Table {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{p.ID.String(), p.Name.String(), p.Description, p.Stock.String(), p.Cantidad.String()}
	}
	return Table{
		Title:    "Inventory Product List",
		FileName: "products",
		Header:   []string{"ID", "Name", "Description", "Stock", "Quantity"},
		Rows:     rows,
	}
}

// ChangesTable lays out the change history, oldest first.
func ChangesTable(records []models.ChangeRecord) Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.ProductName,
			r.QuantityInitial.String(),
			r.QuantityFinal.String(),
			string(r.ChangeType),
			r.ChangeDate,
			r.ChangeTime,
		}
	}
	return Table{
		Title:    "Product Change History",
		FileName: "product_changes",
		Header:   []string{"Product Name", "Initial Quantity", "Final Quantity", "Change Type", "Change Date", "Change Time"},
		Rows:     rows,
	}
}

// Write renders t to w in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatPDF:
		return WritePDF(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
