package reports

import (
	"bytes"
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"github.com/shopspring/decimal"
)

type SalesReportRow struct {
	OrderId       int
	OrderDate     time.Time
	CustomerName  *string
	OrderType     string
	PaymentStatus string
	ItemCount     int
	TotalAmount   decimal.Decimal
}

func getSalesReportRows(ctx context.Context, from time.Time, to time.Time) ([]*SalesReportRow, error) {

	sql := `
SELECT
    so.id AS order_id,
    so.order_date,
    customers.name AS customer_name,
    so.order_type,
    so.payment_status,
    COALESCE(SUM(sod.qty), 0) AS item_count,
    so.total_amount
FROM
    sales_orders AS so
    LEFT JOIN customers ON customers.id = so.customer_id
    LEFT JOIN sales_order_details AS sod ON sod.sales_order_id = so.id
WHERE
    so.order_date BETWEEN ? AND ?
GROUP BY
    so.id, so.order_date, customers.name, so.order_type, so.payment_status, so.total_amount
ORDER BY
    so.order_date ASC, so.id ASC;
`

	var records []*SalesReportRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func GetSalesReport(ctx context.Context, from time.Time, to time.Time) (*bytes.Buffer, error) {

	records, err := getSalesReportRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	headings := []string{"Order ID", "Date", "Customer", "Type", "Payment Status", "Items", "Total Amount"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		customer := "Walk-in"
		if r.CustomerName != nil {
			customer = *r.CustomerName
		}
		rows = append(rows, []interface{}{
			r.OrderId,
			r.OrderDate.Format("2006-01-02"),
			customer,
			r.OrderType,
			r.PaymentStatus,
			r.ItemCount,
			r.TotalAmount.InexactFloat64(),
		})
	}
	return writeSheet("Sales", headings, rows)
}
