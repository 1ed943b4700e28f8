package postgres

import (
	"context"
	"fmt"
	"relatedItems/domain"
	"sort"

	"gorm.io/gorm"
)

type RelatedItemsRepository struct {
	DB *gorm.DB
}

func NewRelatedItemsRepository(db *gorm.DB) *RelatedItemsRepository {
	return &RelatedItemsRepository{
		DB: db,
	}
}

const insertBatchSize = 500

// ReplaceAll swaps the stored mapping for the given one in a single
// transaction, so readers never observe a half-written rebuild.
func (r *RelatedItemsRepository) ReplaceAll(ctx context.Context, scores map[string][]domain.Association) error {
	// insert in base-SKU order so reruns produce identical row order
	baseSKUs := make([]string, 0, len(scores))
	for base := range scores {
		baseSKUs = append(baseSKUs, base)
	}
	sort.Strings(baseSKUs)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1=1").Delete(&domain.RelatedItem{}).Error; err != nil {
			return fmt.Errorf("clear related items: %w", err)
		}

		rows := make([]domain.RelatedItem, 0, insertBatchSize)
		for _, base := range baseSKUs {
			for _, assoc := range scores[base] {
				rows = append(rows, domain.RelatedItem{
					BaseSKU:    base,
					RelatedSKU: assoc.RelatedSKU,
					Confidence: assoc.Confidence,
				})
			}
		}

		if len(rows) == 0 {
			return nil
		}

		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert related items: %w", err)
		}

		return nil
	})
}

func (r *RelatedItemsRepository) GetByBaseSKU(ctx context.Context, baseSKU string, limit int) ([]domain.RelatedItem, error) {
	var rows []domain.RelatedItem

	err := r.DB.WithContext(ctx).
		Where("base_sku=?", baseSKU).
		Order("confidence DESC, related_sku ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get related items for %s: %w", baseSKU, err)
	}

	return rows, nil
}

func (r *RelatedItemsRepository) SaveRun(ctx context.Context, run domain.PipelineRun) error {
	if err := r.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("save pipeline run: %w", err)
	}

	return nil
}

func (r *RelatedItemsRepository) RecentRuns(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	var runs []domain.PipelineRun

	err := r.DB.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list pipeline runs: %w", err)
	}

	return runs, nil
}
