package models

import (
	"context"
	"log"
	"os"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Category{}, &ProductType{}, &Product{},
		&Supplier{}, &Customer{},
		&PurchaseOrder{}, &PurchaseOrderDetail{},
		&SalesOrder{}, &SalesOrderDetail{},
		&StockLedgerEntry{}, &StockSummary{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}

// SeedAdminUser creates the initial admin account when the users table is
// empty. Without it a fresh deployment has no way to reach the admin-only
// endpoints. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(ctx context.Context) error {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		config.GetLogger().Warn("users table is empty and ADMIN_EMAIL/ADMIN_PASSWORD are not set; skipping admin seed")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashedPassword),
		Role:     UserRoleAdmin,
		IsActive: utils.NewTrue(),
	}
	return db.WithContext(ctx).Create(&admin).Error
}
