package reports

import (
	"bytes"
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"github.com/shopspring/decimal"
)

type CashFlowRow struct {
	Day     string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// getCashFlowRows buckets paid orders by calendar day. Unpaid orders are
// excluded: cash flow tracks money movement, not commitments.
func getCashFlowRows(ctx context.Context, from time.Time, to time.Time) ([]*CashFlowRow, error) {

	sql := `
SELECT
    flows.day,
    SUM(flows.income) AS income,
    SUM(flows.expense) AS expense
FROM
    (
        SELECT
            DATE(order_date) AS day,
            total_amount AS income,
            0 AS expense
        FROM sales_orders
        WHERE payment_status = 'paid' AND order_date BETWEEN ? AND ?

        UNION ALL

        SELECT
            DATE(order_date) AS day,
            0 AS income,
            total_amount AS expense
        FROM purchase_orders
        WHERE payment_status = 'paid' AND order_date BETWEEN ? AND ?
    ) AS flows
GROUP BY
    flows.day
ORDER BY
    flows.day ASC;
`

	var records []*CashFlowRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, from, to, from, to).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func GetCashFlowReport(ctx context.Context, from time.Time, to time.Time) (*bytes.Buffer, error) {

	records, err := getCashFlowRows(ctx, from, to)
	if err != nil {
		return nil, err
	}

	headings := []string{"Date", "Sales Income", "Purchase Expense", "Net"}
	rows := make([][]interface{}, 0, len(records))
	var totalIncome, totalExpense decimal.Decimal
	for _, r := range records {
		net := r.Income.Sub(r.Expense)
		rows = append(rows, []interface{}{
			r.Day,
			r.Income.InexactFloat64(),
			r.Expense.InexactFloat64(),
			net.InexactFloat64(),
		})
		totalIncome = totalIncome.Add(r.Income)
		totalExpense = totalExpense.Add(r.Expense)
	}
	rows = append(rows, []interface{}{
		"Total",
		totalIncome.InexactFloat64(),
		totalExpense.InexactFloat64(),
		totalIncome.Sub(totalExpense).InexactFloat64(),
	})
	return writeSheet("Cash Flow", headings, rows)
}
