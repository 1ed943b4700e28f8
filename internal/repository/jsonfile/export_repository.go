package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"relatedItems/domain"
)

// ExportRepository writes the scored mapping to a JSON file:
// base_sku -> [{related_sku, confidence}], ranked.
type ExportRepository struct {
	path string
}

func NewExportRepository(path string) *ExportRepository {
	return &ExportRepository{
		path: path,
	}
}

func (r *ExportRepository) Export(ctx context.Context, scores map[string][]domain.Association) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal related items: %w", err)
	}

	// write to a temp file and rename so readers never see a partial export
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace export file: %w", err)
	}

	return nil
}
