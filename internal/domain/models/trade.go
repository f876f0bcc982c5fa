package models

import "fmt"

// TradeRecord is one validated and mapped trade line.
//
// Fields:
//   - SourceCurrency: first 3 characters of the pair code (e.g., "USD").
//   - DestinationCurrency: last 3 characters of the pair code (e.g., "EUR").
//   - Lots: raw integer amount divided by the lot size (100000.0 by default).
//   - Price: trade price as given on the line.
//
// Records are values: they are compared structurally and never mutated after mapping.
type TradeRecord struct {
	SourceCurrency      string
	DestinationCurrency string
	Lots                float64
	Price               float64
}

func (t TradeRecord) String() string {
	return fmt.Sprintf("TradeRecord(source_currency=%s, destination_currency=%s, lots=%v, price=%v)",
		t.SourceCurrency, t.DestinationCurrency, t.Lots, t.Price)
}
