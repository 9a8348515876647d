// Package study runs the wait-time analysis end to end: load, clean,
// expand, split, fit the baseline and the two cross-validated regularized
// models, and evaluate them. Every stage is a pure function of the previous
// stage's output and the configured seed; a Results value carries
// everything downstream reporting needs.
package study

import "github.com/cupstack/waitlab/dataset"

// Column names of the wait-time survey file.
const (
	ColCustomer     = "customer"
	ColWaitSecs     = "wait_secs"
	ColAge          = "age"
	ColPartySize    = "party_size"
	ColItemsOrdered = "items_ordered"
	ColGender       = "gender"
	ColDaypart      = "daypart"
	ColWeekday      = "weekday"
	ColLoyalty      = "loyalty"
	ColPayment      = "payment"
	ColOrderType    = "order_type"
)

// BaristaPrefix matches the column family with unknown semantics; the
// cleaner removes every column whose name starts with it.
const BaristaPrefix = "barista"

// WaitSchema declares the columns the pipeline relies on. Columns in the
// file but not listed here are loaded with inferred types; the barista
// family among them never survives cleaning.
func WaitSchema() dataset.Schema {
	return dataset.Schema{
		{Name: ColCustomer, Kind: dataset.KindString},
		{Name: ColWaitSecs, Kind: dataset.KindNumeric},
		{Name: ColAge, Kind: dataset.KindNumeric},
		{Name: ColPartySize, Kind: dataset.KindNumeric},
		{Name: ColItemsOrdered, Kind: dataset.KindNumeric},
		{Name: ColGender, Kind: dataset.KindCategorical},
		{Name: ColDaypart, Kind: dataset.KindCategorical},
		{Name: ColWeekday, Kind: dataset.KindCategorical},
		{Name: ColLoyalty, Kind: dataset.KindCategorical},
		{Name: ColPayment, Kind: dataset.KindCategorical},
		{Name: ColOrderType, Kind: dataset.KindCategorical},
	}
}

// CategoricalColumns enumerates the columns the cleaner converts to
// categorical type, in schema order.
func CategoricalColumns() []string {
	return []string{ColGender, ColDaypart, ColWeekday, ColLoyalty, ColPayment, ColOrderType}
}
