package models

import "testing"

func TestStatusBucket_Boundaries(t *testing.T) {
	threshold := 10
	cases := []struct {
		qty  int
		want StockBucket
	}{
		{0, StockBucketOutOfStock},
		{-2, StockBucketOutOfStock},
		{1, StockBucketLowStock},
		{9, StockBucketLowStock},
		{10, StockBucketInStock},
		{500, StockBucketInStock},
	}
	for _, tc := range cases {
		if got := StatusBucket(tc.qty, threshold); got != tc.want {
			t.Errorf("StatusBucket(%d, %d) = %s, want %s", tc.qty, threshold, got, tc.want)
		}
	}
}

func TestLowStockThreshold_Default(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	if got := LowStockThreshold(); got != 10 {
		t.Fatalf("expected default threshold 10, got %d", got)
	}
}

func TestLowStockThreshold_FromEnv(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "25")
	if got := LowStockThreshold(); got != 25 {
		t.Fatalf("expected threshold 25, got %d", got)
	}
}

func TestLowStockThreshold_IgnoresGarbage(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "-3")
	if got := LowStockThreshold(); got != 10 {
		t.Fatalf("expected fallback threshold 10, got %d", got)
	}
}
