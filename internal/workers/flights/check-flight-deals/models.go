// internal/workers/flights/check-flight-deals/models.go
package checkflightdeals

import "flight-deals/internal/models"

type Input struct {
	CorrelationID string `json:"correlationId,omitempty"`
}

type Output struct {
	RunID         string            `json:"runId"`
	CorrelationID string            `json:"correlationId,omitempty"`
	DepartureCode string            `json:"departureCode"`
	DateFrom      string            `json:"dateFrom"`
	DateTo        string            `json:"dateTo"`
	Processed     int               `json:"processed"`
	Skipped       int               `json:"skipped"`
	NoFlights     int               `json:"noFlights"`
	CheapAlerts   int               `json:"cheapAlerts"`
	PlainAlerts   int               `json:"plainAlerts"`
	Deliveries    []models.Delivery `json:"deliveries"`
	FinishedAt    string            `json:"finishedAt"`
}

// Process variables are shared by every task, so unknown keys are allowed.
const inputSchema = `{
  "type": "object",
  "properties": {
    "correlationId": {"type": "string", "minLength": 1}
  }
}`
