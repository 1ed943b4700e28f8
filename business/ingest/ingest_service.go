package ingest

import (
	"context"
	"fmt"
	"io"

	"relatedItems/domain"
	"relatedItems/pkg/logger"
)

type OrdersRepository interface {
	SaveOrders(ctx context.Context, orders map[string][]domain.LineItem) (domain.ImportStats, error)
}

type Service struct {
	ordersRepo OrdersRepository
}

func NewService(ordersRepo OrdersRepository) *Service {
	return &Service{
		ordersRepo: ordersRepo,
	}
}

// ImportCSV parses a Shopify order export and upserts the cleaned orders.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (domain.ImportStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.ImportStats{}, fmt.Errorf("context error: %w", err)
	}

	extracted, err := ExtractOrders(r)
	if err != nil {
		return domain.ImportStats{}, fmt.Errorf("extract orders: %w", err)
	}

	stats, err := s.ordersRepo.SaveOrders(ctx, extracted.Orders)
	if err != nil {
		return domain.ImportStats{}, fmt.Errorf("save orders: %w", err)
	}

	stats.RowsSkipped = extracted.RowsSkipped
	stats.OrdersDropped = extracted.OrdersDropped

	logger.Info("CSV import finished",
		"orders_created", stats.OrdersCreated,
		"items_created", stats.ItemsCreated,
		"order_items_written", stats.OrderItemsWritten,
		"rows_skipped", stats.RowsSkipped,
		"orders_dropped", stats.OrdersDropped,
	)

	return stats, nil
}
