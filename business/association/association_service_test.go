package association

import (
	"context"
	"errors"
	"testing"

	"relatedItems/domain"
)

type fakeSource struct {
	pairs []domain.OrderItemPair
	err   error
}

func (f *fakeSource) ListOrderItemPairs(ctx context.Context) ([]domain.OrderItemPair, error) {
	return f.pairs, f.err
}

type fakeStore struct {
	replaced map[string][]domain.Association
	rows     map[string][]domain.RelatedItem
}

func (f *fakeStore) ReplaceAll(ctx context.Context, scores map[string][]domain.Association) error {
	f.replaced = scores
	return nil
}

func (f *fakeStore) GetByBaseSKU(ctx context.Context, baseSKU string, limit int) ([]domain.RelatedItem, error) {
	rows := f.rows[baseSKU]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type fakeRuns struct {
	saved []domain.PipelineRun
}

func (f *fakeRuns) SaveRun(ctx context.Context, run domain.PipelineRun) error {
	f.saved = append(f.saved, run)
	return nil
}

type fakeExporter struct {
	exported map[string][]domain.Association
}

func (f *fakeExporter) Export(ctx context.Context, scores map[string][]domain.Association) error {
	f.exported = scores
	return nil
}

type fakeCache struct {
	entries map[string][]domain.Association
	flushed bool
}

func (f *fakeCache) Get(ctx context.Context, baseSKU string) ([]domain.Association, error) {
	return f.entries[baseSKU], nil
}

func (f *fakeCache) Set(ctx context.Context, baseSKU string, related []domain.Association) error {
	if f.entries == nil {
		f.entries = make(map[string][]domain.Association)
	}
	f.entries[baseSKU] = related
	return nil
}

func (f *fakeCache) Flush(ctx context.Context) error {
	f.flushed = true
	f.entries = nil
	return nil
}

func newTestService(t *testing.T, source *fakeSource, store *fakeStore, runs *fakeRuns, exporter *fakeExporter, cache *fakeCache) *Service {
	t.Helper()

	var cacheIface RelatedCache
	if cache != nil {
		cacheIface = cache
	}
	var exporterIface Exporter
	if exporter != nil {
		exporterIface = exporter
	}
	var runsIface RunRepository
	if runs != nil {
		runsIface = runs
	}

	svc, err := NewService(source, store, runsIface, exporterIface, cacheIface, DefaultConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceRebuild(t *testing.T) {
	ctx := context.Background()

	t.Run("stores scored associations and records the run", func(t *testing.T) {
		source := &fakeSource{pairs: pairsFromOrders(map[string][]string{
			"O1": {"A", "B"},
			"O2": {"A", "C"},
			"O3": {"A", "B", "C"},
		})}
		store := &fakeStore{}
		runs := &fakeRuns{}
		exporter := &fakeExporter{}
		cache := &fakeCache{entries: map[string][]domain.Association{"A": {{RelatedSKU: "stale"}}}}

		svc := newTestService(t, source, store, runs, exporter, cache)

		summary, err := svc.Rebuild(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.Status != domain.RunStatusSucceeded {
			t.Errorf("status = %s, want succeeded", summary.Status)
		}
		if summary.Orders != 3 || summary.Items != 3 || summary.Associations != 6 {
			t.Errorf("summary = %+v, want 3 orders, 3 items, 6 associations", summary)
		}
		if summary.RunID == "" {
			t.Error("run id must not be empty")
		}

		if got := confidenceOf(t, store.replaced, "B", "A"); got != 0.6667 {
			t.Errorf("stored confidence(B->A) = %v, want 0.6667", got)
		}
		if exporter.exported == nil {
			t.Error("exporter was not called")
		}
		if !cache.flushed {
			t.Error("cache was not flushed")
		}

		if len(runs.saved) != 1 {
			t.Fatalf("saved runs = %d, want 1", len(runs.saved))
		}
		if runs.saved[0].Status != domain.RunStatusSucceeded {
			t.Errorf("run status = %s, want succeeded", runs.saved[0].Status)
		}
	})

	t.Run("nil exporter skips the file sink", func(t *testing.T) {
		source := &fakeSource{pairs: pairsFromOrders(map[string][]string{
			"O1": {"A", "B"},
		})}
		store := &fakeStore{}
		runs := &fakeRuns{}

		svc := newTestService(t, source, store, runs, nil, nil)

		summary, err := svc.Rebuild(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Status != domain.RunStatusSucceeded {
			t.Errorf("status = %s, want succeeded", summary.Status)
		}
		if store.replaced == nil {
			t.Error("store was not written")
		}
	})

	t.Run("empty source returns sentinel and writes nothing", func(t *testing.T) {
		source := &fakeSource{}
		store := &fakeStore{}
		runs := &fakeRuns{}

		svc := newTestService(t, source, store, runs, nil, nil)

		summary, err := svc.Rebuild(ctx)
		if !errors.Is(err, domain.ErrNoOrderItems) {
			t.Fatalf("error = %v, want ErrNoOrderItems", err)
		}
		if summary.Status != domain.RunStatusEmpty {
			t.Errorf("status = %s, want empty", summary.Status)
		}
		if store.replaced != nil {
			t.Errorf("store written on empty input: %v", store.replaced)
		}
		if len(runs.saved) != 1 || runs.saved[0].Status != domain.RunStatusEmpty {
			t.Errorf("empty run not recorded: %+v", runs.saved)
		}
	})

	t.Run("source failure marks the run failed", func(t *testing.T) {
		source := &fakeSource{err: errors.New("connection refused")}
		runs := &fakeRuns{}

		svc := newTestService(t, source, &fakeStore{}, runs, nil, nil)

		summary, err := svc.Rebuild(ctx)
		if err == nil {
			t.Fatal("expected error")
		}
		if summary.Status != domain.RunStatusFailed {
			t.Errorf("status = %s, want failed", summary.Status)
		}
	})

	t.Run("rebuild twice produces identical associations", func(t *testing.T) {
		source := &fakeSource{pairs: pairsFromOrders(map[string][]string{
			"O1": {"A", "B"},
			"O2": {"A", "C"},
			"O3": {"A", "B", "C"},
		})}
		store := &fakeStore{}

		svc := newTestService(t, source, store, nil, nil, nil)

		if _, err := svc.Rebuild(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := store.replaced

		if _, err := svc.Rebuild(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for base, related := range store.replaced {
			for i, assoc := range related {
				if first[base][i] != assoc {
					t.Errorf("second run differs at %s[%d]: %v vs %v", base, i, first[base][i], assoc)
				}
			}
		}
	})
}

func TestServiceGetRelated(t *testing.T) {
	ctx := context.Background()

	storeRows := map[string][]domain.RelatedItem{
		"A": {
			{BaseSKU: "A", RelatedSKU: "B", Confidence: 0.5},
			{BaseSKU: "A", RelatedSKU: "C", Confidence: 0.5},
		},
	}

	t.Run("reads from store and fills the cache", func(t *testing.T) {
		cache := &fakeCache{}
		svc := newTestService(t, &fakeSource{}, &fakeStore{rows: storeRows}, nil, nil, cache)

		related, err := svc.GetRelated(ctx, "A", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(related) != 2 {
			t.Fatalf("len(related) = %d, want 2", len(related))
		}
		if cache.entries["A"] == nil {
			t.Error("cache was not populated")
		}
	})

	t.Run("serves from cache on a hit", func(t *testing.T) {
		cache := &fakeCache{entries: map[string][]domain.Association{
			"A": {{RelatedSKU: "B", Confidence: 0.5}},
		}}
		// empty store proves the cache answered
		svc := newTestService(t, &fakeSource{}, &fakeStore{}, nil, nil, cache)

		related, err := svc.GetRelated(ctx, "A", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(related) != 1 || related[0].RelatedSKU != "B" {
			t.Errorf("related = %v, want cached B", related)
		}
	})

	t.Run("limit falls back to K and caps results", func(t *testing.T) {
		svc := newTestService(t, &fakeSource{}, &fakeStore{rows: storeRows}, nil, nil, nil)

		related, err := svc.GetRelated(ctx, "A", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(related) != 1 {
			t.Errorf("len(related) = %d, want 1", len(related))
		}

		related, err = svc.GetRelated(ctx, "A", 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(related) != 2 {
			t.Errorf("len(related) = %d, want 2 (capped by K then by data)", len(related))
		}
	})

	t.Run("unknown sku yields empty list", func(t *testing.T) {
		svc := newTestService(t, &fakeSource{}, &fakeStore{rows: storeRows}, nil, nil, nil)

		related, err := svc.GetRelated(ctx, "ZZZ", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(related) != 0 {
			t.Errorf("related = %v, want empty", related)
		}
	})
}
