// internal/dealcheck/alert.go
package dealcheck

import (
	"fmt"
	"strconv"
	"strings"

	"flight-deals/internal/models"
)

// IsCheap reports whether price qualifies for the cheap alert. A price equal
// to the threshold qualifies.
func IsCheap(price, threshold float64) bool {
	return price <= threshold
}

// CheapMessage renders the alert sent when a quote is at or under the threshold.
func CheapMessage(fromCity, toCity, currency string, quote *models.FlightQuote) string {
	return fmt.Sprintf(
		"Cheap flight Alert from %s to %s for just %s %s\nNo. of layovers: %d\nAirlines: %s\n",
		fromCity,
		toCity,
		strconv.FormatFloat(quote.Price, 'f', -1, 64),
		currency,
		quote.Layovers,
		strings.Join(quote.Airlines, ", "),
	)
}

// NotCheapMessage never carries the price.
func NotCheapMessage(fromCity, toCity string) string {
	return fmt.Sprintf("Found no cheap flight from %s to %s", fromCity, toCity)
}
