package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

type Category struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCategory) validate(ctx context.Context, id int) error {
	// name
	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:        input.Name,
		Description: input.Description,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&category).Error
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&category).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory rejects the delete while any product type still references
// the category. No cascade.
func DeleteCategory(ctx context.Context, id int) error {

	if err := requireRole(ctx, UserRoleManager, UserRoleAdmin); err != nil {
		return err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[ProductType](ctx, "category_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewAppError(utils.ErrorKindConflict, "category_id",
			"category is referenced by %d product type(s)", count)
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&category).Error
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	return utils.FetchModel[Category](ctx, id)
}

func ListCategories(ctx context.Context) ([]*Category, error) {
	return utils.FetchAllModels[Category](ctx)
}
