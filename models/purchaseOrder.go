package models

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrder struct {
	ID            int                   `gorm:"primary_key" json:"id"`
	SupplierId    int                   `gorm:"index;not null" json:"supplier_id"`
	SupplierName  string                `gorm:"->;-:migration" json:"supplier_name"`
	OrderDate     time.Time             `gorm:"index;not null" json:"order_date"`
	PaymentStatus PaymentStatus         `gorm:"type:enum('unpaid','paid');default:'unpaid'" json:"payment_status"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	CreatedBy     int                   `gorm:"not null" json:"created_by"`
	Details       []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderId" json:"details"`
	CreatedAt     time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	ProductName     string          `gorm:"size:100" json:"product_name"`
	Qty             int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
}

type NewPurchaseOrder struct {
	SupplierId int            `json:"supplier_id" binding:"required"`
	OrderDate  time.Time      `json:"order_date" binding:"required"`
	Details    []NewOrderLine `json:"details"`
}

// CreatePurchaseOrder validates and commits the order header, its lines and
// one +qty ledger entry per line in a single transaction. The order starts
// unpaid and is immutable afterwards except for the payment status.
func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := validateOrderLines(input.Details); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, utils.NewAppError(utils.ErrorKindInvalidReference, "supplier_id",
			"supplier %d not found", input.SupplierId)
	}
	products, err := fetchLineProducts(ctx, input.Details)
	if err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	details := make([]PurchaseOrderDetail, 0, len(input.Details))
	for _, line := range input.Details {
		details = append(details, PurchaseOrderDetail{
			ProductId:   line.ProductId,
			ProductName: products[line.ProductId].Name,
			Qty:         line.Qty,
			UnitPrice:   line.UnitPrice,
			TotalAmount: line.LineTotal(),
		})
	}

	purchaseOrder := PurchaseOrder{
		SupplierId:    input.SupplierId,
		OrderDate:     input.OrderDate,
		PaymentStatus: PaymentStatusUnpaid,
		TotalAmount:   orderTotalAmount(input.Details),
		CreatedBy:     userId,
		Details:       details,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchaseOrder).Error; err != nil {
			return err
		}

		quantities := quantityByProduct(input.Details)
		productIds := make([]int, 0, len(quantities))
		for id := range quantities {
			productIds = append(productIds, id)
		}
		summaries, err := lockStockSummaries(tx, ctx, productIds)
		if err != nil {
			return err
		}
		for _, summary := range summariesInOrder(summaries) {
			if err := appendStockDelta(tx, ctx, summary, quantities[summary.ProductId], StockReferencePurchaseOrder, purchaseOrder.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetPurchaseOrder(ctx, purchaseOrder.ID)
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	db := config.GetDB()
	var purchaseOrder PurchaseOrder
	err := db.WithContext(ctx).Model(&PurchaseOrder{}).
		Select("purchase_orders.*, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = purchase_orders.supplier_id").
		Preload("Details").
		Where("purchase_orders.id = ?", id).
		Take(&purchaseOrder).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &purchaseOrder, nil
}

// ListPurchaseOrders returns orders matching the filter, newest first with
// id as tie-breaker so pagination is deterministic and restartable.
func ListPurchaseOrders(ctx context.Context, filter *OrderFilter) ([]*PurchaseOrder, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&PurchaseOrder{}).
		Select("purchase_orders.*, suppliers.name AS supplier_name").
		Joins("LEFT JOIN suppliers ON suppliers.id = purchase_orders.supplier_id").
		Preload("Details")
	dbCtx = filter.apply(dbCtx, "purchase_orders")

	var orders []*PurchaseOrder
	if err := dbCtx.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetPurchaseOrderPaymentStatus toggles unpaid<->paid. Idempotent.
func SetPurchaseOrderPaymentStatus(ctx context.Context, id int, status PaymentStatus) (*PurchaseOrder, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "payment_status",
			"invalid payment status %q", status)
	}

	purchaseOrder, err := utils.FetchModel[PurchaseOrder](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&purchaseOrder).
		Update("PaymentStatus", status).Error
	if err != nil {
		return nil, err
	}

	return GetPurchaseOrder(ctx, id)
}

// summariesInOrder returns locked summaries sorted by product id, matching
// the lock acquisition order.
func summariesInOrder(summaries map[int]*StockSummary) []*StockSummary {
	ordered := make([]*StockSummary, 0, len(summaries))
	for _, summary := range summaries {
		ordered = append(ordered, summary)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ProductId < ordered[j].ProductId
	})
	return ordered
}
