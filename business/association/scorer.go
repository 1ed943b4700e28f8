package association

import (
	"fmt"
	"math"
	"relatedItems/domain"
	"sort"
)

// Score turns the co-occurrence matrix into ranked recommendation lists.
// confidence(base->related) = count(base,related) / total(base), rounded
// to 4 decimals. Partners are ranked by descending confidence with
// ascending related SKU as the tie break, filtered by cfg.MinConfidence,
// then truncated to cfg.MaxPerItem. Pure function of its inputs.
func Score(matrix Matrix, cfg Config) (map[string][]domain.Association, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scores := make(map[string][]domain.Association, len(matrix))

	for base, partners := range matrix {
		total := matrix.Total(base)
		if total <= 0 {
			// Every item in the matrix co-occurred at least once, so a
			// zero total means the matrix itself is broken.
			return nil, fmt.Errorf("%w: sku %q", domain.ErrZeroBaseTotal, base)
		}

		related := make([]domain.Association, 0, len(partners))
		for sku, count := range partners {
			confidence := round4(float64(count) / float64(total))
			if confidence < cfg.MinConfidence {
				continue
			}
			related = append(related, domain.Association{
				RelatedSKU: sku,
				Confidence: confidence,
			})
		}

		if len(related) == 0 {
			continue
		}

		sort.Slice(related, func(i, j int) bool {
			if related[i].Confidence == related[j].Confidence {
				return related[i].RelatedSKU < related[j].RelatedSKU
			}
			return related[i].Confidence > related[j].Confidence
		})

		if len(related) > cfg.MaxPerItem {
			related = related[:cfg.MaxPerItem]
		}

		scores[base] = related
	}

	return scores, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
