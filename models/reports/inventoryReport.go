package reports

import (
	"bytes"
	"context"

	"bitbucket.org/mmdatafocus/shop_backend/models"
)

// GetInventoryReport is a snapshot of current stock per product; there is no
// date range because stock summaries only hold the present quantity.
func GetInventoryReport(ctx context.Context) (*bytes.Buffer, error) {

	items, err := models.GetInventory(ctx)
	if err != nil {
		return nil, err
	}

	headings := []string{"Product ID", "SKU", "Product", "Quantity", "Status", "Last Updated"}
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, []interface{}{
			item.ProductId,
			item.Sku,
			item.ProductName,
			item.Quantity,
			string(item.Bucket),
			item.LastUpdated.Format("2006-01-02 15:04"),
		})
	}
	return writeSheet("Inventory", headings, rows)
}
