package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/shopspring/decimal"
)

func TestValidateOrderLines_EmptyOrder(t *testing.T) {
	err := validateOrderLines(nil)
	if !utils.IsErrorKind(err, utils.ErrorKindEmptyOrder) {
		t.Fatalf("expected EmptyOrder error, got %v", err)
	}
}

func TestValidateOrderLines_RejectsBadQuantities(t *testing.T) {
	cases := []struct {
		name string
		line NewOrderLine
	}{
		{"zero qty", NewOrderLine{ProductId: 1, Qty: 0, UnitPrice: decimal.NewFromInt(100)}},
		{"negative qty", NewOrderLine{ProductId: 1, Qty: -3, UnitPrice: decimal.NewFromInt(100)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateOrderLines([]NewOrderLine{tc.line})
			if !utils.IsErrorKind(err, utils.ErrorKindInvalidLine) {
				t.Fatalf("expected InvalidLine error, got %v", err)
			}
		})
	}
}

func TestValidateOrderLines_RejectsNegativePrice(t *testing.T) {
	lines := []NewOrderLine{
		{ProductId: 1, Qty: 2, UnitPrice: decimal.NewFromInt(500)},
		{ProductId: 2, Qty: 1, UnitPrice: decimal.NewFromInt(-1)},
	}
	err := validateOrderLines(lines)
	appErr := utils.AsAppError(err)
	if appErr == nil || appErr.Kind != utils.ErrorKindInvalidLine {
		t.Fatalf("expected InvalidLine error, got %v", err)
	}
	if appErr.Field != "unit_price" {
		t.Fatalf("expected field unit_price, got %q", appErr.Field)
	}
}

func TestValidateOrderLines_ZeroPriceIsAllowed(t *testing.T) {
	lines := []NewOrderLine{{ProductId: 1, Qty: 1, UnitPrice: decimal.Zero}}
	if err := validateOrderLines(lines); err != nil {
		t.Fatalf("zero price should be valid (giveaways), got %v", err)
	}
}

func TestOrderTotalAmount(t *testing.T) {
	lines := []NewOrderLine{
		{ProductId: 1, Qty: 3, UnitPrice: decimal.NewFromFloat(1500.50)},
		{ProductId: 2, Qty: 2, UnitPrice: decimal.NewFromInt(200)},
	}
	got := orderTotalAmount(lines)
	want := decimal.NewFromFloat(4901.50)
	if !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestLineTotal(t *testing.T) {
	line := NewOrderLine{ProductId: 1, Qty: 4, UnitPrice: decimal.NewFromFloat(12.25)}
	if got := line.LineTotal(); !got.Equal(decimal.NewFromInt(49)) {
		t.Fatalf("expected 49, got %s", got)
	}
}

func TestQuantityByProduct_FoldsDuplicateLines(t *testing.T) {
	lines := []NewOrderLine{
		{ProductId: 7, Qty: 2, UnitPrice: decimal.NewFromInt(10)},
		{ProductId: 9, Qty: 1, UnitPrice: decimal.NewFromInt(10)},
		{ProductId: 7, Qty: 3, UnitPrice: decimal.NewFromInt(12)},
	}
	quantities := quantityByProduct(lines)
	if quantities[7] != 5 {
		t.Fatalf("expected product 7 demand 5, got %d", quantities[7])
	}
	if quantities[9] != 1 {
		t.Fatalf("expected product 9 demand 1, got %d", quantities[9])
	}
}
