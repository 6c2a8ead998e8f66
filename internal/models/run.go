// internal/models/run.go
package models

import "time"

// Alert variants
const (
	AlertCheap    = "cheap"
	AlertNotCheap = "not_cheap"
)

// DeliveryStatus is what the messaging provider reported for one send.
type DeliveryStatus struct {
	Provider  string `json:"provider"`
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// Delivery records one alert sent during a run.
type Delivery struct {
	DestinationID int            `json:"destinationId"`
	City          string         `json:"city"`
	Variant       string         `json:"variant"`
	Price         float64        `json:"price"`
	Status        DeliveryStatus `json:"status"`
}

// RunReport summarizes one pass over the destination rows.
type RunReport struct {
	RunID         string       `json:"runId"`
	StartedAt     time.Time    `json:"startedAt"`
	FinishedAt    time.Time    `json:"finishedAt"`
	Window        SearchWindow `json:"window"`
	DepartureCode string       `json:"departureCode"`
	Processed     int          `json:"processed"`
	Skipped       int          `json:"skipped"`
	NoFlights     int          `json:"noFlights"`
	CheapAlerts   int          `json:"cheapAlerts"`
	PlainAlerts   int          `json:"plainAlerts"`
	Deliveries    []Delivery   `json:"deliveries"`
}
