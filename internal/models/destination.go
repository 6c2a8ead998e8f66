// internal/models/destination.go
package models

// DestinationRow is one row of the destination store. IATACode is rewritten
// by every run; rows are never deleted by the run.
type DestinationRow struct {
	ID          int     `json:"id"`
	City        string  `json:"city"`
	LowestPrice float64 `json:"lowestPrice"` // alert threshold
	IATACode    string  `json:"iataCode"`
}
