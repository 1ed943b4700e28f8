package ingest

import (
	"context"
	"strings"
	"testing"

	"relatedItems/domain"
)

const sampleCSV = `Name,Email,Fulfillment Status,Lineitem quantity,Lineitem name,Lineitem sku
#1001,a@example.com,fulfilled,1,Green Tea,TEA-01
#1001,a@example.com,fulfilled,2,Honey,HON-01
#1001,a@example.com,fulfilled,1,Honey,HON-01
#1002,b@example.com,unfulfilled,1,Green Tea,TEA-01
#1003,c@example.com,fulfilled,1,Mystery Item,
#1003,c@example.com,fulfilled,3,Black Tea,TEA-02
#1004,d@example.com,fulfilled,1,,MUG-01
`

func TestExtractOrders(t *testing.T) {
	t.Run("parses and groups a shopify export", func(t *testing.T) {
		result, err := ExtractOrders(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Orders) != 3 {
			t.Fatalf("len(orders) = %d, want 3", len(result.Orders))
		}

		items := result.Orders["#1001"]
		if len(items) != 2 {
			t.Fatalf("order #1001 items = %v, want 2 merged lines", items)
		}
		if items[1].SKU != "HON-01" || items[1].Quantity != 3 {
			t.Errorf("duplicate sku not merged by quantity: %+v", items[1])
		}
	})

	t.Run("drops orders without a fulfilled line", func(t *testing.T) {
		result, err := ExtractOrders(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := result.Orders["#1002"]; ok {
			t.Error("unfulfilled order #1002 must be dropped")
		}
		if result.OrdersDropped != 1 {
			t.Errorf("OrdersDropped = %d, want 1", result.OrdersDropped)
		}
	})

	t.Run("skips rows with blank skus", func(t *testing.T) {
		result, err := ExtractOrders(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.RowsSkipped != 1 {
			t.Errorf("RowsSkipped = %d, want 1", result.RowsSkipped)
		}
		for _, item := range result.Orders["#1003"] {
			if item.SKU == "" {
				t.Error("blank sku row made it into the order")
			}
		}
	})

	t.Run("defaults missing line name to Unknown", func(t *testing.T) {
		result, err := ExtractOrders(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		items := result.Orders["#1004"]
		if len(items) != 1 || items[0].Name != "Unknown" {
			t.Errorf("order #1004 items = %+v, want one item named Unknown", items)
		}
	})

	t.Run("rejects a csv without required columns", func(t *testing.T) {
		_, err := ExtractOrders(strings.NewReader("Foo,Bar\n1,2\n"))
		if err == nil {
			t.Fatal("expected error for missing columns")
		}
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		_, err := ExtractOrders(strings.NewReader(""))
		if err == nil {
			t.Fatal("expected error for empty file")
		}
	})
}

type fakeOrdersRepo struct {
	saved map[string][]domain.LineItem
}

func (f *fakeOrdersRepo) SaveOrders(ctx context.Context, orders map[string][]domain.LineItem) (domain.ImportStats, error) {
	f.saved = orders
	total := 0
	for _, items := range orders {
		total += len(items)
	}
	return domain.ImportStats{
		OrdersCreated:     len(orders),
		OrderItemsWritten: total,
	}, nil
}

func TestImportCSV(t *testing.T) {
	t.Run("persists extracted orders and merges stats", func(t *testing.T) {
		repo := &fakeOrdersRepo{}
		svc := NewService(repo)

		stats, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if stats.OrdersCreated != 3 {
			t.Errorf("OrdersCreated = %d, want 3", stats.OrdersCreated)
		}
		if stats.OrdersDropped != 1 || stats.RowsSkipped != 1 {
			t.Errorf("stats = %+v, want 1 dropped order and 1 skipped row", stats)
		}
		if repo.saved == nil {
			t.Error("repository was not called")
		}
	})

	t.Run("propagates parse failures", func(t *testing.T) {
		svc := NewService(&fakeOrdersRepo{})

		if _, err := svc.ImportCSV(context.Background(), strings.NewReader("")); err == nil {
			t.Fatal("expected error")
		}
	})
}
