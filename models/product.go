package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"gorm.io/gorm"
)

type Product struct {
	ID           int           `gorm:"primary_key" json:"id"`
	Sku          string        `gorm:"size:100;not null;unique" json:"sku" binding:"required"`
	Name         string        `gorm:"index;size:100;not null" json:"name" binding:"required"`
	CategoryId   int           `gorm:"index;not null" json:"category_id" binding:"required"`
	CategoryName string        `gorm:"->;-:migration" json:"category_name"`
	TypeId       int           `gorm:"index;not null" json:"type_id" binding:"required"`
	TypeName     string        `gorm:"->;-:migration" json:"type_name"`
	Status       ProductStatus `gorm:"type:enum('active','inactive');default:'active'" json:"status"`
	CurrentStock int           `gorm:"->;-:migration" json:"current_stock"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Sku        string        `json:"sku" binding:"required"`
	Name       string        `json:"name" binding:"required"`
	CategoryId int           `json:"category_id" binding:"required"`
	TypeId     int           `json:"type_id" binding:"required"`
	Status     ProductStatus `json:"status"`
}

func (input *NewProduct) validate(ctx context.Context, id int) error {
	if input.Status == "" {
		input.Status = ProductStatusActive
	}
	if !input.Status.IsValid() {
		return utils.NewAppError(utils.ErrorKindInvalidLine, "status", "invalid product status %q", input.Status)
	}
	if err := utils.ValidateUnique[Product](ctx, "sku", input.Sku, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
		return utils.NewAppError(utils.ErrorKindInvalidReference, "category_id", "category not found")
	}
	if err := utils.ValidateResourceId[ProductType](ctx, input.TypeId); err != nil {
		return utils.NewAppError(utils.ErrorKindInvalidReference, "type_id", "product type not found")
	}
	return nil
}

// CreateProduct stores the product and initializes its stock summary at zero
// in the same transaction. Stock is only ever mutated by order commits.
func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		Sku:        input.Sku,
		Name:       input.Name,
		CategoryId: input.CategoryId,
		TypeId:     input.TypeId,
		Status:     input.Status,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		summary := StockSummary{
			ProductId:     product.ID,
			CurrentQty:    0,
			LastUpdatedAt: time.Now().UTC(),
		}
		return tx.Create(&summary).Error
	})
	if err != nil {
		return nil, err
	}

	return GetProduct(ctx, product.ID)
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Sku":        input.Sku,
		"Name":       input.Name,
		"CategoryId": input.CategoryId,
		"TypeId":     input.TypeId,
		"Status":     input.Status,
	}).Error
	if err != nil {
		return nil, err
	}

	return GetProduct(ctx, id)
}

// DeleteProduct rejects the delete once the product has ledger history;
// deactivate instead. Historical order lines must keep resolving.
func DeleteProduct(ctx context.Context, id int) error {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[StockLedgerEntry](ctx, "product_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewAppError(utils.ErrorKindConflict, "product_id",
			"product has %d stock ledger entries; set it inactive instead", count)
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&StockSummary{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

const productListSelect = `products.*,
	categories.name AS category_name,
	product_types.name AS type_name,
	COALESCE(stock_summaries.current_qty, 0) AS current_stock`

func GetProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).Model(&Product{}).
		Select(productListSelect).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN product_types ON product_types.id = products.type_id").
		Joins("LEFT JOIN stock_summaries ON stock_summaries.product_id = products.id").
		Where("products.id = ?", id).
		Take(&product).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &product, nil
}

func ListProducts(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	err := db.WithContext(ctx).Model(&Product{}).
		Select(productListSelect).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN product_types ON product_types.id = products.type_id").
		Joins("LEFT JOIN stock_summaries ON stock_summaries.product_id = products.id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
