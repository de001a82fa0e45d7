package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

type ProductType struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	CategoryId   int       `gorm:"index;not null" json:"category_id" binding:"required"`
	CategoryName string    `gorm:"->;-:migration" json:"category_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductType struct {
	Name       string `json:"name" binding:"required"`
	CategoryId int    `json:"category_id" binding:"required"`
}

func (input *NewProductType) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[ProductType](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
		return utils.NewAppError(utils.ErrorKindInvalidReference, "category_id", "category not found")
	}
	return nil
}

func CreateProductType(ctx context.Context, input *NewProductType) (*ProductType, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	productType := ProductType{
		Name:       input.Name,
		CategoryId: input.CategoryId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&productType).Error; err != nil {
		return nil, err
	}

	return GetProductType(ctx, productType.ID)
}

func UpdateProductType(ctx context.Context, id int, input *NewProductType) (*ProductType, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	productType, err := utils.FetchModel[ProductType](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&productType).Updates(map[string]interface{}{
		"Name":       input.Name,
		"CategoryId": input.CategoryId,
	}).Error
	if err != nil {
		return nil, err
	}

	return GetProductType(ctx, id)
}

// DeleteProductType rejects the delete while any product still references
// the type. No cascade.
func DeleteProductType(ctx context.Context, id int) error {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return err
	}

	productType, err := utils.FetchModel[ProductType](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "type_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewAppError(utils.ErrorKindConflict, "type_id",
			"product type is referenced by %d product(s)", count)
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&productType).Error
}

func GetProductType(ctx context.Context, id int) (*ProductType, error) {
	db := config.GetDB()
	var productType ProductType
	err := db.WithContext(ctx).Model(&ProductType{}).
		Select("product_types.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = product_types.category_id").
		Where("product_types.id = ?", id).
		Take(&productType).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &productType, nil
}

func ListProductTypes(ctx context.Context) ([]*ProductType, error) {
	db := config.GetDB()
	var productTypes []*ProductType
	err := db.WithContext(ctx).Model(&ProductType{}).
		Select("product_types.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = product_types.category_id").
		Find(&productTypes).Error
	if err != nil {
		return nil, err
	}
	return productTypes, nil
}
