package models

import "github.com/shopspring/decimal"

// Sale is a completed transaction as returned by the upstream sales service.
type Sale struct {
	ID              int64           `json:"id" example:"42"`
	SaleDate        Date            `json:"sale_date" swaggertype:"string" example:"2024-03-15"`
	Total           decimal.Decimal `json:"total" swaggertype:"string" example:"150.00"`
	CustomerID      int64           `json:"customer_id" example:"7"`
	SalespersonID   int64           `json:"salesperson_id" example:"3"`
	PaymentMethodID int64           `json:"payment_method_id" example:"1"`
}

// LineItem is one product line of a sale, from the upstream line-item service.
// SaleID references the parent sale; it does not imply ownership.
type LineItem struct {
	ID        int64           `json:"id" example:"1001"`
	SaleID    int64           `json:"sale_id" example:"42"`
	ProductID int64           `json:"product_id" example:"501"`
	Quantity  int64           `json:"quantity" example:"2"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"10.00"`
}

// LineTotal is UnitPrice × Quantity in exact decimal arithmetic.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// FilterSales returns the sales whose date falls inside r, keeping their order.
func FilterSales(sales []Sale, r DateRange) []Sale {
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if r.Contains(s.SaleDate) {
			out = append(out, s)
		}
	}
	return out
}
