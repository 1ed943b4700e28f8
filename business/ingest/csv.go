package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"relatedItems/domain"
)

// Column headers of a Shopify order export, after normalization
// (trimmed, spaces and dashes replaced with underscores).
const (
	colOrderName         = "Name"
	colFulfillmentStatus = "Fulfillment_Status"
	colLineitemSKU       = "Lineitem_sku"
	colLineitemName      = "Lineitem_name"
	colLineitemQuantity  = "Lineitem_quantity"
)

type ExtractResult struct {
	Orders        map[string][]domain.LineItem
	RowsSkipped   int
	OrdersDropped int
}

// ExtractOrders parses a Shopify order-export CSV and groups line items by
// order number. Orders without at least one fulfilled line are dropped,
// rows with a blank SKU are skipped, and duplicate SKUs within an order
// are merged by summing quantity.
func ExtractOrders(r io.Reader) (ExtractResult, error) {
	result := ExtractResult{Orders: make(map[string][]domain.LineItem)}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return result, fmt.Errorf("empty csv file")
	}
	if err != nil {
		return result, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}

	for _, required := range []string{colOrderName, colFulfillmentStatus, colLineitemSKU} {
		if _, ok := cols[required]; !ok {
			return result, fmt.Errorf("missing required column %q", required)
		}
	}

	type orderRows struct {
		hasFulfilled bool
		items        []domain.LineItem
	}
	orders := make(map[string]*orderRows)
	orderNumbers := make([]string, 0)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read csv row: %w", err)
		}

		orderNumber := strings.TrimSpace(field(record, cols, colOrderName))
		if orderNumber == "" {
			result.RowsSkipped++
			continue
		}

		row, ok := orders[orderNumber]
		if !ok {
			row = &orderRows{}
			orders[orderNumber] = row
			orderNumbers = append(orderNumbers, orderNumber)
		}

		status := strings.ToLower(strings.TrimSpace(field(record, cols, colFulfillmentStatus)))
		if status == "fulfilled" {
			row.hasFulfilled = true
		}

		sku := strings.TrimSpace(field(record, cols, colLineitemSKU))
		if sku == "" || strings.EqualFold(sku, "nan") {
			result.RowsSkipped++
			continue
		}

		name := strings.TrimSpace(field(record, cols, colLineitemName))
		if name == "" {
			name = "Unknown"
		}

		quantity := 1
		if q, err := strconv.Atoi(strings.TrimSpace(field(record, cols, colLineitemQuantity))); err == nil && q > 0 {
			quantity = q
		}

		row.items = append(row.items, domain.LineItem{
			SKU:      sku,
			Name:     name,
			Quantity: quantity,
		})
	}

	for _, orderNumber := range orderNumbers {
		row := orders[orderNumber]
		if !row.hasFulfilled || len(row.items) == 0 {
			result.OrdersDropped++
			continue
		}
		result.Orders[orderNumber] = mergeDuplicates(row.items)
	}

	return result, nil
}

// mergeDuplicates collapses repeated SKUs within one order, summing
// quantities and keeping first-seen item order.
func mergeDuplicates(items []domain.LineItem) []domain.LineItem {
	merged := make([]domain.LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if i, ok := index[item.SKU]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.SKU] = len(merged)
		merged = append(merged, item)
	}

	return merged
}

func normalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
