package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrder struct {
	ID            int                `gorm:"primary_key" json:"id"`
	CustomerId    *int               `gorm:"index" json:"customer_id"` // nil = walk-in sale
	CustomerName  *string            `gorm:"->;-:migration" json:"customer_name"`
	OrderDate     time.Time          `gorm:"index;not null" json:"order_date"`
	OrderType     SalesOrderType     `gorm:"type:enum('normal','livestream');default:'normal'" json:"order_type"`
	PaymentStatus PaymentStatus      `gorm:"type:enum('unpaid','paid');default:'unpaid'" json:"payment_status"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	CreatedBy     int                `gorm:"not null" json:"created_by"`
	Details       []SalesOrderDetail `gorm:"foreignKey:SalesOrderId" json:"details"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesOrderDetail struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SalesOrderId int             `gorm:"index;not null" json:"sales_order_id"`
	ProductId    int             `gorm:"index;not null" json:"product_id"`
	ProductName  string          `gorm:"size:100" json:"product_name"`
	Qty          int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
}

type NewSalesOrder struct {
	CustomerId *int           `json:"customer_id"`
	OrderDate  time.Time      `json:"order_date" binding:"required"`
	OrderType  SalesOrderType `json:"order_type"`
	Details    []NewOrderLine `json:"details"`
}

// CreateSalesOrder validates the order, then checks stock sufficiency and
// commits the header, lines and -qty ledger entries under per-product row
// locks, all in one transaction. Either every line commits or none does;
// stock can never go negative from a committed sales order.
func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, error) {

	if err := requireRole(ctx, UserRoleEmployee, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if input.OrderType == "" {
		input.OrderType = SalesOrderTypeNormal
	}
	if !input.OrderType.IsValid() {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "order_type",
			"invalid order type %q", input.OrderType)
	}
	if err := validateOrderLines(input.Details); err != nil {
		return nil, err
	}
	if input.CustomerId != nil && *input.CustomerId != 0 {
		if err := utils.ValidateResourceId[Customer](ctx, *input.CustomerId); err != nil {
			return nil, utils.NewAppError(utils.ErrorKindInvalidReference, "customer_id",
				"customer %d not found", *input.CustomerId)
		}
	}
	products, err := fetchLineProducts(ctx, input.Details)
	if err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	details := make([]SalesOrderDetail, 0, len(input.Details))
	for _, line := range input.Details {
		details = append(details, SalesOrderDetail{
			ProductId:   line.ProductId,
			ProductName: products[line.ProductId].Name,
			Qty:         line.Qty,
			UnitPrice:   line.UnitPrice,
			TotalAmount: line.LineTotal(),
		})
	}

	salesOrder := SalesOrder{
		CustomerId:    normalizeCustomerId(input.CustomerId),
		OrderDate:     input.OrderDate,
		OrderType:     input.OrderType,
		PaymentStatus: PaymentStatusUnpaid,
		TotalAmount:   orderTotalAmount(input.Details),
		CreatedBy:     userId,
		Details:       details,
	}

	// Redis lock is a best-effort optimization to shorten lock waits under
	// bursts. Correctness must not depend on Redis: the sufficiency check is
	// serialized by the MySQL row locks below.
	if locker := config.GetRedisLock(); locker != nil {
		if lock, lockErr := locker.Obtain(ctx, "lock:stock-commit", 5*time.Second, nil); lockErr == nil {
			defer lock.Release(ctx)
		}
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quantities := quantityByProduct(input.Details)
		productIds := make([]int, 0, len(quantities))
		for id := range quantities {
			productIds = append(productIds, id)
		}

		// Check every line against locked stock before applying anything.
		summaries, err := lockStockSummaries(tx, ctx, productIds)
		if err != nil {
			return err
		}
		for _, summary := range summariesInOrder(summaries) {
			requested := quantities[summary.ProductId]
			if summary.CurrentQty < requested {
				return utils.NewAppError(utils.ErrorKindInsufficientStock, "product_id",
					"insufficient stock for %s: available %d, requested %d",
					products[summary.ProductId].Name, summary.CurrentQty, requested)
			}
		}

		if err := tx.Create(&salesOrder).Error; err != nil {
			return err
		}
		for _, summary := range summariesInOrder(summaries) {
			if err := appendStockDelta(tx, ctx, summary, -quantities[summary.ProductId], StockReferenceSalesOrder, salesOrder.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetSalesOrder(ctx, salesOrder.ID)
}

func normalizeCustomerId(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	db := config.GetDB()
	var salesOrder SalesOrder
	err := db.WithContext(ctx).Model(&SalesOrder{}).
		Select("sales_orders.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = sales_orders.customer_id").
		Preload("Details").
		Where("sales_orders.id = ?", id).
		Take(&salesOrder).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &salesOrder, nil
}

func ListSalesOrders(ctx context.Context, filter *OrderFilter) ([]*SalesOrder, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&SalesOrder{}).
		Select("sales_orders.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = sales_orders.customer_id").
		Preload("Details")
	dbCtx = filter.apply(dbCtx, "sales_orders")

	var orders []*SalesOrder
	if err := dbCtx.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetSalesOrderPaymentStatus toggles unpaid<->paid. Idempotent.
func SetSalesOrderPaymentStatus(ctx context.Context, id int, status PaymentStatus) (*SalesOrder, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "payment_status",
			"invalid payment status %q", status)
	}

	salesOrder, err := utils.FetchModel[SalesOrder](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&salesOrder).
		Update("PaymentStatus", status).Error
	if err != nil {
		return nil, err
	}

	return GetSalesOrder(ctx, id)
}
