// internal/models/flight.go
package models

import (
	"fmt"
	"time"
)

// SearchDateLayout is the DD/MM/YYYY format the flight API expects.
const SearchDateLayout = "02/01/2006"

// SearchWindow is the departure date range shared by every probe of a run.
type SearchWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewSearchWindow anchors a window of horizonDays at start.
func NewSearchWindow(start time.Time, horizonDays int) SearchWindow {
	return SearchWindow{
		From: start,
		To:   start.AddDate(0, 0, horizonDays),
	}
}

func (w SearchWindow) DateFrom() string {
	return w.From.Format(SearchDateLayout)
}

func (w SearchWindow) DateTo() string {
	return w.To.Format(SearchDateLayout)
}

// FlightQuery describes one cheapest-flight probe.
type FlightQuery struct {
	FromCode      string
	ToCode        string
	Window        SearchWindow
	MinStayNights int
	MaxStayNights int
	Currency      string
}

// FlightQuote is the cheapest offer found for a destination.
type FlightQuote struct {
	Price         float64  `json:"price"`
	DepartureCity string   `json:"departureCity"`
	DepartureCode string   `json:"departureCode"`
	ArrivalCity   string   `json:"arrivalCity"`
	ArrivalCode   string   `json:"arrivalCode"`
	Layovers      int      `json:"layovers"`
	Airlines      []string `json:"airlines"`
}

// LayoversFromSegments converts a segment (PNR) count into a layover count.
// A count below one is malformed input and never becomes a negative layover count.
func LayoversFromSegments(segments int) (int, error) {
	if segments < 1 {
		return 0, fmt.Errorf("segment count must be >= 1, got %d", segments)
	}
	return segments - 1, nil
}
