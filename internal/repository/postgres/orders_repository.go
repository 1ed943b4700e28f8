package postgres

import (
	"context"
	"fmt"
	"relatedItems/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// SaveOrders upserts the cleaned orders in one transaction. Existing
// orders and items are reused, order_items quantities are overwritten.
func (r *OrdersRepository) SaveOrders(ctx context.Context, orders map[string][]domain.LineItem) (domain.ImportStats, error) {
	var stats domain.ImportStats

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for orderNumber, items := range orders {
			order := domain.Order{OrderNumber: orderNumber}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "order_number"}},
				DoNothing: true,
			}).Create(&order)
			if res.Error != nil {
				return fmt.Errorf("upsert order %s: %w", orderNumber, res.Error)
			}
			if res.RowsAffected > 0 {
				stats.OrdersCreated++
			} else {
				if err := tx.Where("order_number=?", orderNumber).First(&order).Error; err != nil {
					return fmt.Errorf("fetch order %s: %w", orderNumber, err)
				}
			}

			for _, line := range items {
				item := domain.Item{SKU: line.SKU, Name: line.Name}
				res := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "sku"}},
					DoNothing: true,
				}).Create(&item)
				if res.Error != nil {
					return fmt.Errorf("upsert item %s: %w", line.SKU, res.Error)
				}
				if res.RowsAffected > 0 {
					stats.ItemsCreated++
				} else {
					if err := tx.Where("sku=?", line.SKU).First(&item).Error; err != nil {
						return fmt.Errorf("fetch item %s: %w", line.SKU, err)
					}
				}

				orderItem := domain.OrderItem{
					OrderID:  order.ID,
					ItemID:   item.ID,
					Quantity: line.Quantity,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "order_id"}, {Name: "item_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
				}).Create(&orderItem).Error; err != nil {
					return fmt.Errorf("upsert order item %s/%s: %w", orderNumber, line.SKU, err)
				}
				stats.OrderItemsWritten++
			}
		}

		return nil
	})
	if err != nil {
		return domain.ImportStats{}, err
	}

	return stats, nil
}

// ListOrderItemPairs returns the deduplicated order->item relation,
// ordered by (order_number, sku) so every run sees identical input.
func (r *OrdersRepository) ListOrderItemPairs(ctx context.Context) ([]domain.OrderItemPair, error) {
	var pairs []domain.OrderItemPair

	err := r.DB.WithContext(ctx).Raw(`
		SELECT o.order_number, i.sku
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN items i ON oi.item_id = i.id
		ORDER BY o.order_number, i.sku
	`).Scan(&pairs).Error
	if err != nil {
		return nil, fmt.Errorf("list order item pairs: %w", err)
	}

	return pairs, nil
}
