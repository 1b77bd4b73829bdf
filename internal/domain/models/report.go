package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StatusComplete is the only status the upstreams can currently justify;
// there is no partial-fulfillment signal to derive anything else from.
const StatusComplete = "Complete"

// CombinedStatisticsMessage labels the merged statistics payload.
const CombinedStatisticsMessage = "Combined statistics from Sales and Line Items"

// IntegratedReport is a sale joined with its line items plus derived figures.
//
// Fields:
//   - ItemCount: number of line items (always len(LineItems)).
//   - Subtotal: Σ unit_price × quantity, exact.
//   - AveragePerItem: Subtotal / ItemCount, zero without items.
//   - UnitCount: Σ quantity across line items.
//   - AveragePerUnit: Subtotal / UnitCount, zero without units.
//   - Status: StatusComplete.
//
// swagger:model IntegratedReport
type IntegratedReport struct {
	Sale
	LineItems      []LineItem      `json:"line_items"`
	ItemCount      int             `json:"item_count" example:"2"`
	UnitCount      int64           `json:"unit_count" example:"3"`
	Subtotal       decimal.Decimal `json:"subtotal" swaggertype:"string" example:"45.00"`
	AveragePerItem decimal.Decimal `json:"average_per_item" swaggertype:"string" example:"22.5"`
	AveragePerUnit decimal.Decimal `json:"average_per_unit" swaggertype:"string" example:"15"`
	Status         string          `json:"status" example:"Complete"`
}

// NewIntegratedReport attaches items to sale and computes the derived fields.
// A nil items slice is treated as no line items.
func NewIntegratedReport(sale Sale, items []LineItem) IntegratedReport {
	if items == nil {
		items = []LineItem{}
	}

	subtotal := decimal.Zero
	var units int64
	for _, li := range items {
		subtotal = subtotal.Add(li.LineTotal())
		units += li.Quantity
	}

	r := IntegratedReport{
		Sale:           sale,
		LineItems:      items,
		ItemCount:      len(items),
		UnitCount:      units,
		Subtotal:       subtotal,
		AveragePerItem: decimal.Zero,
		AveragePerUnit: decimal.Zero,
		Status:         StatusComplete,
	}
	if r.ItemCount > 0 {
		r.AveragePerItem = subtotal.Div(decimal.NewFromInt(int64(r.ItemCount)))
	}
	if units > 0 {
		r.AveragePerUnit = subtotal.Div(decimal.NewFromInt(units))
	}
	return r
}

// CombinedStatistics merges the statistics payloads of both upstreams.
// A source that failed is represented by a null payload.
//
// swagger:model CombinedStatistics
type CombinedStatistics struct {
	SalesStatistics    json.RawMessage `json:"sales_statistics" swaggertype:"object"`
	LineItemStatistics json.RawMessage `json:"line_item_statistics" swaggertype:"object"`
	Message            string          `json:"message" example:"Combined statistics from Sales and Line Items"`
}

// BasicReportRow is a locally stored sale summary, independent of the upstreams.
type BasicReportRow struct {
	ID            int64           `json:"id" example:"1"`
	SaleDate      Date            `json:"sale_date" swaggertype:"string" example:"2024-01-15"`
	Total         decimal.Decimal `json:"total" swaggertype:"string" example:"99.90"`
	SalespersonID int64           `json:"salesperson_id" example:"3"`
}
