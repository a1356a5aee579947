package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

func products() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Martillo", Description: "Mango de madera, 500 g", Stock: models.StockAvailable, Cantidad: 12},
		{ID: 2, Name: "Clavos", Description: "Caja de 100", Stock: models.StockUnavailable, Cantidad: 0},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestProductsTable(t *testing.T) {
	tbl := ProductsTable(products())

	assert.Equal(t, []string{"ID", "Name", "Description", "Stock", "Quantity"}, tbl.Header)
	assert.Equal(t, []string{"2", "Clavos", "Caja de 100", "No disponible", "0"}, tbl.Rows[1])
	assert.Equal(t, "products.pdf", tbl.FileNameFor(FormatPDF))
}

func TestChangesTable(t *testing.T) {
	tbl := ChangesTable([]models.ChangeRecord{
		{ProductName: "Martillo", QuantityInitial: 5, QuantityFinal: 2, ChangeType: models.ChangeOutflow, ChangeDate: "2024-03-09", ChangeTime: "14:05:07"},
	})

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"Martillo", "5", "2", "outflow", "2024-03-09", "14:05:07"}, tbl.Rows[0])
	assert.Equal(t, []string{"Product Name", "Initial Quantity", "Final Quantity", "Change Type", "Change Date", "Change Time"}, tbl.Header)
	assert.Equal(t, "product_changes.csv", tbl.FileNameFor(FormatCSV))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, ProductsTable(products())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Description,Stock,Quantity", lines[0])
	assert.Equal(t, `1,Martillo,"Mango de madera, 500 g",Disponible,12`, lines[1])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPDF, ProductsTable(products())))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, ChangesTable(nil)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_ManyRowsPaginates(t *testing.T) {
	var many []models.Product
	for i := range 120 {
		many = append(many, models.Product{ID: models.ProductID(i + 1), Name: "Producto", Description: strings.Repeat("x", 200), Stock: models.StockAvailable})
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, ProductsTable(many)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
