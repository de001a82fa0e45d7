package models

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLedgerEntry is the append-only source of truth for stock. One entry
// per order line: +qty from a purchase order commit, -qty from a sales order
// commit, tagged with the originating document.
type StockLedgerEntry struct {
	ID            int                `gorm:"primary_key" json:"id"`
	ProductId     int                `gorm:"index;not null" json:"product_id"`
	QtyDelta      int                `gorm:"not null" json:"qty_delta"`
	ReferenceType StockReferenceType `gorm:"type:enum('PO','SO');not null" json:"reference_type"`
	ReferenceId   int                `gorm:"index;not null" json:"reference_id"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

// StockSummary is a denormalized running counter over the ledger, updated in
// the SAME transaction as every ledger append so it can never diverge.
// Sufficiency checks lock this row (SELECT ... FOR UPDATE); that is the
// serialization point for concurrent sales orders on one product.
type StockSummary struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ProductId     int       `gorm:"uniqueIndex;not null" json:"product_id"`
	CurrentQty    int       `gorm:"not null;default:0" json:"current_qty"`
	LastUpdatedAt time.Time `gorm:"not null" json:"last_updated_at"`
}

// lockStockSummaries fetches the summary rows FOR UPDATE, always in
// ascending product id order so concurrent commits cannot deadlock.
func lockStockSummaries(tx *gorm.DB, ctx context.Context, productIds []int) (map[int]*StockSummary, error) {
	ids := utils.UniqueSlice(productIds)
	sort.Ints(ids)

	var rows []*StockSummary
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ?", ids).
		Order("product_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[int]*StockSummary, len(rows))
	for _, row := range rows {
		summaries[row.ProductId] = row
	}
	for _, id := range ids {
		if _, ok := summaries[id]; !ok {
			return nil, utils.NewAppError(utils.ErrorKindInvalidReference, "product_id",
				"product %d has no stock record", id)
		}
	}
	return summaries, nil
}

// appendStockDelta writes the ledger entry and bumps the already-locked
// summary row. Callers must hold the row lock from lockStockSummaries.
func appendStockDelta(tx *gorm.DB, ctx context.Context, summary *StockSummary, delta int, refType StockReferenceType, refId int) error {
	entry := StockLedgerEntry{
		ProductId:     summary.ProductId,
		QtyDelta:      delta,
		ReferenceType: refType,
		ReferenceId:   refId,
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	summary.CurrentQty += delta
	summary.LastUpdatedAt = time.Now().UTC()
	return tx.WithContext(ctx).Model(&StockSummary{}).
		Where("product_id = ?", summary.ProductId).
		Updates(map[string]interface{}{
			"CurrentQty":    summary.CurrentQty,
			"LastUpdatedAt": summary.LastUpdatedAt,
		}).Error
}

// GetCurrentStock returns the product's stock as maintained by the ledger.
func GetCurrentStock(ctx context.Context, productId int) (int, error) {
	db := config.GetDB()
	var summary StockSummary
	err := db.WithContext(ctx).Where("product_id = ?", productId).Take(&summary).Error
	if err != nil {
		return 0, utils.NewAppError(utils.ErrorKindNotFound, "product_id", "product %d has no stock record", productId)
	}
	return summary.CurrentQty, nil
}

// RebuildStockSummaries recomputes every summary from the ledger. Recovery
// tool; the transactional commit path keeps summaries consistent in normal
// operation.
func RebuildStockSummaries(ctx context.Context) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type ledgerSum struct {
			ProductId int
			Total     int
		}
		var sums []ledgerSum
		err := tx.Model(&StockLedgerEntry{}).
			Select("product_id, COALESCE(SUM(qty_delta), 0) AS total").
			Group("product_id").
			Scan(&sums).Error
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&StockSummary{}).Where("1 = 1").
			Updates(map[string]interface{}{"CurrentQty": 0, "LastUpdatedAt": now}).Error; err != nil {
			return err
		}
		for _, sum := range sums {
			err := tx.Model(&StockSummary{}).
				Where("product_id = ?", sum.ProductId).
				Updates(map[string]interface{}{"CurrentQty": sum.Total, "LastUpdatedAt": now}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
