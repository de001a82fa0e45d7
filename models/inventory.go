package models

import (
	"context"
	"os"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"github.com/shopspring/decimal"
)

const defaultLowStockThreshold = 10

// LowStockThreshold is the boundary between low_stock and in_stock.
// Configurable via LOW_STOCK_THRESHOLD; not a domain law.
func LowStockThreshold() int {
	v, err := strconv.Atoi(os.Getenv("LOW_STOCK_THRESHOLD"))
	if err != nil || v <= 0 {
		return defaultLowStockThreshold
	}
	return v
}

// StatusBucket classifies a stock level for display/alerting:
// 0 is out of stock, anything below the threshold is low, the rest is in stock.
func StatusBucket(qty int, threshold int) StockBucket {
	switch {
	case qty <= 0:
		return StockBucketOutOfStock
	case qty < threshold:
		return StockBucketLowStock
	default:
		return StockBucketInStock
	}
}

type InventoryItem struct {
	ProductId   int         `json:"product_id"`
	Sku         string      `json:"sku"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	Bucket      StockBucket `json:"bucket"`
	LastUpdated time.Time   `json:"last_updated"`
}

// GetInventory returns one row per product with its ledger-backed stock.
// Reads go through stock_summaries which is updated in the same transaction
// as every ledger append, so a read after a commit observes that commit.
func GetInventory(ctx context.Context) ([]*InventoryItem, error) {
	db := config.GetDB()

	type row struct {
		ProductId     int
		Sku           string
		ProductName   string
		CurrentQty    int
		LastUpdatedAt time.Time
	}
	var rows []row
	err := db.WithContext(ctx).Model(&StockSummary{}).
		Select(`stock_summaries.product_id,
			products.sku,
			products.name AS product_name,
			stock_summaries.current_qty,
			stock_summaries.last_updated_at`).
		Joins("JOIN products ON products.id = stock_summaries.product_id").
		Order("products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	threshold := LowStockThreshold()
	items := make([]*InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, &InventoryItem{
			ProductId:   r.ProductId,
			Sku:         r.Sku,
			ProductName: r.ProductName,
			Quantity:    r.CurrentQty,
			Bucket:      StatusBucket(r.CurrentQty, threshold),
			LastUpdated: r.LastUpdatedAt,
		})
	}
	return items, nil
}

type InventorySummary struct {
	TotalProducts     int `json:"total_products"`
	TotalUnitsInStock int `json:"total_units_in_stock"`
	LowStockCount     int `json:"low_stock_count"`
	OutOfStockCount   int `json:"out_of_stock_count"`
}

// GetInventorySummary aggregates current stock across all products.
// Recomputed per call; no persisted cache at this scale.
func GetInventorySummary(ctx context.Context) (*InventorySummary, error) {
	items, err := GetInventory(ctx)
	if err != nil {
		return nil, err
	}

	summary := InventorySummary{TotalProducts: len(items)}
	for _, item := range items {
		summary.TotalUnitsInStock += item.Quantity
		switch item.Bucket {
		case StockBucketLowStock:
			summary.LowStockCount++
		case StockBucketOutOfStock:
			summary.OutOfStockCount++
		}
	}
	return &summary, nil
}

type DashboardStats struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalCustomers   int64           `json:"total_customers"`
	TotalSuppliers   int64           `json:"total_suppliers"`
}

func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := config.GetDB()
	var stats DashboardStats

	err := db.WithContext(ctx).Model(&SalesOrder{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&PurchaseOrder{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalExpenses).Error
	if err != nil {
		return nil, err
	}
	stats.TotalProfit = stats.TotalRevenue.Sub(stats.TotalExpenses)

	if err := db.WithContext(ctx).Model(&SalesOrder{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&SalesOrder{}).
		Where("payment_status <> ?", PaymentStatusPaid).Count(&stats.PendingOrders).Error
	if err != nil {
		return nil, err
	}

	inventorySummary, err := GetInventorySummary(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockProducts = inventorySummary.LowStockCount + inventorySummary.OutOfStockCount

	if err := db.WithContext(ctx).Model(&Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Supplier{}).Count(&stats.TotalSuppliers).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
