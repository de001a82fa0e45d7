package models

import (
	"context"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/shopspring/decimal"
)

// NewOrderLine is one input line of a purchase or sales order.
type NewOrderLine struct {
	ProductId int             `json:"product_id" binding:"required"`
	Qty       int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (line *NewOrderLine) LineTotal() decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
}

// validateOrderLines rejects empty orders and malformed lines before any
// database work happens.
func validateOrderLines(lines []NewOrderLine) error {
	if len(lines) == 0 {
		return utils.NewAppError(utils.ErrorKindEmptyOrder, "details", "order must have at least one line")
	}
	for i, line := range lines {
		if line.Qty <= 0 {
			return utils.NewAppError(utils.ErrorKindInvalidLine, "quantity",
				"line %d: quantity must be positive, got %d", i+1, line.Qty)
		}
		if line.UnitPrice.IsNegative() {
			return utils.NewAppError(utils.ErrorKindInvalidLine, "unit_price",
				"line %d: unit price must not be negative, got %s", i+1, line.UnitPrice)
		}
	}
	return nil
}

// orderTotalAmount is the committed total: sum of quantity x unit price.
func orderTotalAmount(lines []NewOrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// quantityByProduct folds line quantities so a product appearing on several
// lines is checked against stock as one combined demand.
func quantityByProduct(lines []NewOrderLine) map[int]int {
	quantities := make(map[int]int, len(lines))
	for _, line := range lines {
		quantities[line.ProductId] += line.Qty
	}
	return quantities
}

// fetchLineProducts resolves every referenced product, failing closed when
// any is missing. Product names are copied onto the committed lines so
// historical orders survive later renames.
func fetchLineProducts(ctx context.Context, lines []NewOrderLine) (map[int]*Product, error) {
	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductId)
	}
	ids = utils.UniqueSlice(ids)

	db := config.GetDB()
	var products []*Product
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byId := make(map[int]*Product, len(products))
	for _, product := range products {
		byId[product.ID] = product
	}
	for _, id := range ids {
		if _, ok := byId[id]; !ok {
			return nil, utils.NewAppError(utils.ErrorKindInvalidReference, "product_id", "product %d not found", id)
		}
	}
	return byId, nil
}
