package association

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"relatedItems/domain"
	"relatedItems/pkg/logger"
	"relatedItems/pkg/metrics"

	"github.com/google/uuid"
)

// OrderItemSource supplies the deduplicated (order_number, sku) relation,
// ordered deterministically. How it is stored is not the engine's concern.
type OrderItemSource interface {
	ListOrderItemPairs(ctx context.Context) ([]domain.OrderItemPair, error)
}

type RelatedItemsStore interface {
	ReplaceAll(ctx context.Context, scores map[string][]domain.Association) error
	GetByBaseSKU(ctx context.Context, baseSKU string, limit int) ([]domain.RelatedItem, error)
}

type RunRepository interface {
	SaveRun(ctx context.Context, run domain.PipelineRun) error
}

// Exporter writes the scored mapping to a secondary sink (JSON file).
type Exporter interface {
	Export(ctx context.Context, scores map[string][]domain.Association) error
}

// RelatedCache is a read-through cache over the store. A miss is
// (nil, nil), cache failures must not fail reads.
type RelatedCache interface {
	Get(ctx context.Context, baseSKU string) ([]domain.Association, error)
	Set(ctx context.Context, baseSKU string, related []domain.Association) error
	Flush(ctx context.Context) error
}

type Service struct {
	source   OrderItemSource
	store    RelatedItemsStore
	runs     RunRepository
	exporter Exporter
	cache    RelatedCache
	cfg      Config

	// one rebuild at a time: manual trigger and scheduler must not interleave
	rebuildMu sync.Mutex
}

func NewService(
	source OrderItemSource,
	store RelatedItemsStore,
	runs RunRepository,
	exporter Exporter,
	cache RelatedCache,
	cfg Config,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		source:   source,
		store:    store,
		runs:     runs,
		exporter: exporter,
		cache:    cache,
		cfg:      cfg,
	}, nil
}

// Rebuild recomputes every association from the full current order
// history and replaces the stored mapping. Returns ErrNoOrderItems when
// the source is empty; nothing is written in that case.
func (s *Service) Rebuild(ctx context.Context) (domain.RunSummary, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	summary := domain.RunSummary{RunID: uuid.NewString()}
	started := time.Now()
	metrics.RebuildTotal.Inc()

	finish := func(status string, runErr error) (domain.RunSummary, error) {
		summary.Status = status
		summary.DurationMS = time.Since(started).Milliseconds()
		metrics.RebuildDuration.Observe(time.Since(started).Seconds())
		if status == domain.RunStatusFailed {
			metrics.RebuildFailures.Inc()
		}
		s.recordRun(ctx, summary, started)
		return summary, runErr
	}

	pairs, err := s.source.ListOrderItemPairs(ctx)
	if err != nil {
		return finish(domain.RunStatusFailed, fmt.Errorf("list order items: %w", err))
	}

	if len(pairs) == 0 {
		logger.Warn("No order items found, skipping rebuild", "run_id", summary.RunID)
		return finish(domain.RunStatusEmpty, domain.ErrNoOrderItems)
	}

	orders := make(map[string]struct{})
	for _, p := range pairs {
		orders[p.OrderNumber] = struct{}{}
	}
	summary.Orders = len(orders)

	matrix := BuildMatrix(pairs)
	summary.Items = len(matrix)

	scores, err := Score(matrix, s.cfg)
	if err != nil {
		return finish(domain.RunStatusFailed, fmt.Errorf("score associations: %w", err))
	}

	for _, related := range scores {
		summary.Associations += len(related)
	}

	if err := s.store.ReplaceAll(ctx, scores); err != nil {
		return finish(domain.RunStatusFailed, fmt.Errorf("store associations: %w", err))
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, scores); err != nil {
			return finish(domain.RunStatusFailed, fmt.Errorf("export associations: %w", err))
		}
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			logger.Warn("Failed to flush related-items cache", "error", err)
		}
	}

	metrics.AssociationsStored.Set(float64(summary.Associations))
	logger.Info("Association rebuild finished",
		"run_id", summary.RunID,
		"orders", summary.Orders,
		"items", summary.Items,
		"associations", summary.Associations,
	)

	return finish(domain.RunStatusSucceeded, nil)
}

// GetRelated returns the ranked related items for a base SKU. limit <= 0
// or above the configured K falls back to K.
func (s *Service) GetRelated(ctx context.Context, baseSKU string, limit int) ([]domain.Association, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 || limit > s.cfg.MaxPerItem {
		limit = s.cfg.MaxPerItem
	}

	metrics.RelatedServedTotal.Inc()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, baseSKU)
		if err != nil {
			logger.Warn("Related-items cache read failed", "sku", baseSKU, "error", err)
		} else if cached != nil {
			return truncate(cached, limit), nil
		}
	}

	rows, err := s.store.GetByBaseSKU(ctx, baseSKU, s.cfg.MaxPerItem)
	if err != nil {
		return nil, fmt.Errorf("get related items: %w", err)
	}

	related := make([]domain.Association, 0, len(rows))
	for _, r := range rows {
		related = append(related, domain.Association{
			RelatedSKU: r.RelatedSKU,
			Confidence: r.Confidence,
		})
	}

	if s.cache != nil && len(related) > 0 {
		if err := s.cache.Set(ctx, baseSKU, related); err != nil {
			logger.Warn("Related-items cache write failed", "sku", baseSKU, "error", err)
		}
	}

	return truncate(related, limit), nil
}

func truncate(related []domain.Association, limit int) []domain.Association {
	if len(related) > limit {
		return related[:limit]
	}
	return related
}

func (s *Service) recordRun(ctx context.Context, summary domain.RunSummary, started time.Time) {
	if s.runs == nil {
		return
	}

	stats, err := json.Marshal(summary)
	if err != nil {
		logger.Error("Failed to marshal run stats", "error", err)
		return
	}

	run := domain.PipelineRun{
		RunID:      summary.RunID,
		Status:     summary.Status,
		Stats:      stats,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		logger.Error("Failed to record pipeline run", "run_id", summary.RunID, "error", err)
	}
}
