package association

import "relatedItems/domain"

// Matrix is the sparse symmetric co-occurrence matrix: base SKU -> partner
// SKU -> number of orders containing both. count(a,b) == count(b,a), the
// diagonal is never stored, partners with zero co-occurrence are absent.
type Matrix map[string]map[string]int

func (m Matrix) increment(a, b string) {
	partners, ok := m[a]
	if !ok {
		partners = make(map[string]int)
		m[a] = partners
	}
	partners[b]++
}

// Total returns the sum of counts over all partners of sku. Totals are
// always derived from the matrix, never cached, so they cannot drift.
func (m Matrix) Total(sku string) int {
	total := 0
	for _, n := range m[sku] {
		total += n
	}
	return total
}

// BuildMatrix groups the pairs by order into item sets, then counts every
// unordered SKU pair per order. Accumulation is commutative and
// associative, so the result does not depend on input ordering. An order
// with fewer than two distinct items contributes nothing; an empty input
// yields an empty matrix, which the caller decides how to treat.
//
// Cost is quadratic in basket size (an order with n distinct items adds
// n*(n-1)/2 pairs). Fine for retail baskets, a known limit for very
// large ones.
func BuildMatrix(pairs []domain.OrderItemPair) Matrix {
	baskets := make(map[string]map[string]struct{})
	for _, p := range pairs {
		set, ok := baskets[p.OrderNumber]
		if !ok {
			set = make(map[string]struct{})
			baskets[p.OrderNumber] = set
		}
		set[p.SKU] = struct{}{}
	}

	matrix := make(Matrix)
	for _, set := range baskets {
		if len(set) < 2 {
			continue
		}

		skus := make([]string, 0, len(set))
		for sku := range set {
			skus = append(skus, sku)
		}

		for i, a := range skus {
			for _, b := range skus[i+1:] {
				matrix.increment(a, b)
				matrix.increment(b, a)
			}
		}
	}

	return matrix
}
