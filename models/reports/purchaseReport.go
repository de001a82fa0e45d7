package reports

import (
	"bytes"
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"github.com/shopspring/decimal"
)

type PurchaseReportRow struct {
	OrderId       int
	OrderDate     time.Time
	SupplierName  string
	PaymentStatus string
	ItemCount     int
	TotalAmount   decimal.Decimal
}

func getPurchaseReportRows(ctx context.Context, from time.Time, to time.Time) ([]*PurchaseReportRow, error) {

	sql := `
SELECT
    po.id AS order_id,
    po.order_date,
    suppliers.name AS supplier_name,
    po.payment_status,
    COALESCE(SUM(pod.qty), 0) AS item_count,
    po.total_amount
FROM
    purchase_orders AS po
    LEFT JOIN suppliers ON suppliers.id = po.supplier_id
    LEFT JOIN purchase_order_details AS pod ON pod.purchase_order_id = po.id
WHERE
    po.order_date BETWEEN ? AND ?
GROUP BY
    po.id, po.order_date, suppliers.name, po.payment_status, po.total_amount
ORDER BY
    po.order_date ASC, po.id ASC;
`

	var records []*PurchaseReportRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func GetPurchaseReport(ctx context.Context, from time.Time, to time.Time) (*bytes.Buffer, error) {

	records, err := getPurchaseReportRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	headings := []string{"Order ID", "Date", "Supplier", "Payment Status", "Items", "Total Amount"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.OrderId,
			r.OrderDate.Format("2006-01-02"),
			r.SupplierName,
			r.PaymentStatus,
			r.ItemCount,
			r.TotalAmount.InexactFloat64(),
		})
	}
	return writeSheet("Purchases", headings, rows)
}
