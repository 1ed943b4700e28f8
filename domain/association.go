package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// OrderItemPair is one row of the deduplicated order->item relation the
// association engine consumes.
type OrderItemPair struct {
	OrderNumber string `json:"order_number"`
	SKU         string `json:"sku"`
}

// Association is directed: confidence(A->B) != confidence(B->A) in general
// because the totals differ.
type Association struct {
	RelatedSKU string  `json:"related_sku"`
	Confidence float64 `json:"confidence"`
}

type RelatedItem struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BaseSKU    string    `gorm:"column:base_sku;index;type:text;not null" json:"base_sku"`
	RelatedSKU string    `gorm:"column:related_sku;type:text;not null" json:"related_sku"`
	Confidence float64   `gorm:"column:confidence;type:numeric" json:"confidence"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (RelatedItem) TableName() string {
	return "related_items"
}

// PipelineRun records one rebuild of the association tables.
type PipelineRun struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID      string         `gorm:"column:run_id;uniqueIndex;type:text;not null" json:"run_id"`
	Status     string         `gorm:"column:status;type:text;not null" json:"status"`
	Stats      datatypes.JSON `gorm:"column:stats" json:"stats"`
	StartedAt  time.Time      `gorm:"column:started_at" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at" json:"finished_at"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}

const (
	RunStatusSucceeded = "succeeded"
	RunStatusEmpty     = "empty"
	RunStatusFailed    = "failed"
)

type RunSummary struct {
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
	Orders       int    `json:"orders"`
	Items        int    `json:"items"`
	Associations int    `json:"associations"`
	DurationMS   int64  `json:"duration_ms"`
}

var (
	// ErrNoOrderItems: the source yielded no pairs. Recoverable, the
	// caller decides whether an empty history is fatal.
	ErrNoOrderItems = errors.New("no order items available")

	// ErrZeroBaseTotal: a base item sits in the matrix with a zero
	// derived total. Programmer error, never divide through it.
	ErrZeroBaseTotal = errors.New("base item has zero co-occurrence total")

	ErrInvalidConfig = errors.New("invalid association config")
)
