package domain

import "time"

// CREATE TABLE public.orders (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     order_number TEXT UNIQUE NOT NULL,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Order struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string    `gorm:"column:order_number;uniqueIndex;type:text;not null" json:"order_number"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

type Item struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU       string    `gorm:"column:sku;uniqueIndex;type:text;not null" json:"sku"`
	Name      string    `gorm:"column:name;type:text" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Item) TableName() string {
	return "items"
}

// One row per distinct item per order. Quantity is informational only,
// scoring treats a basket as a set.
type OrderItem struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  uint64 `gorm:"column:order_id;uniqueIndex:idx_order_item;not null" json:"order_id"`
	ItemID   uint64 `gorm:"column:item_id;uniqueIndex:idx_order_item;not null" json:"item_id"`
	Quantity int    `gorm:"column:quantity;default:1" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineItem is one cleaned CSV line item before persistence.
type LineItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ImportStats struct {
	OrdersCreated     int `json:"orders_created"`
	ItemsCreated      int `json:"items_created"`
	OrderItemsWritten int `json:"order_items_written"`
	RowsSkipped       int `json:"rows_skipped"`
	OrdersDropped     int `json:"orders_dropped"`
}
