package kiwi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flight-deals/internal/common/config"
	apperrors "flight-deals/internal/common/errors"
	httpclient "flight-deals/internal/common/http"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// offerSchema is the part of a search offer the quote is built from.
const offerSchema = `{
  "type": "object",
  "required": ["price", "cityFrom", "flyFrom", "cityTo", "flyTo", "airlines", "pnr_count"],
  "properties": {
    "price":     {"type": "number", "minimum": 0},
    "cityFrom":  {"type": "string"},
    "flyFrom":   {"type": "string", "minLength": 1},
    "cityTo":    {"type": "string"},
    "flyTo":     {"type": "string", "minLength": 1},
    "airlines":  {"type": "array", "items": {"type": "string"}},
    "pnr_count": {"type": "integer", "minimum": 1}
  }
}`

var offerSchemaLoader = gojsonschema.NewStringLoader(offerSchema)

// Client wraps the Tequila location and search endpoints.
type Client struct {
	http       *httpclient.Client
	searchPath string
	logger     logger.Logger
}

type location struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type offer struct {
	Price    float64  `json:"price"`
	CityFrom string   `json:"cityFrom"`
	FlyFrom  string   `json:"flyFrom"`
	CityTo   string   `json:"cityTo"`
	FlyTo    string   `json:"flyTo"`
	Airlines []string `json:"airlines"`
	PNRCount int      `json:"pnr_count"`
}

func NewClient(cfg config.KiwiConfig, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		http:       httpclient.NewClient(cfg.BaseURL, timeout, httpclient.WithHeader("apikey", cfg.APIKey)),
		searchPath: cfg.SearchPath,
		logger:     log.WithFields(map[string]interface{}{"provider": "kiwi"}),
	}
}

// ResolveLocation maps a free-text query to a location code. Returns an error
// wrapping ErrNoLocationMatch when the provider has no usable match.
func (c *Client) ResolveLocation(ctx context.Context, query string) (string, error) {
	var resp struct {
		Locations []location `json:"locations"`
	}
	params := url.Values{}
	params.Set("term", query)
	if err := c.http.GetJSON(ctx, "/locations/query", params, &resp); err != nil {
		return "", apperrors.NewLocationLookupError(query, err)
	}

	loc, ok := firstLocation(resp.Locations)
	if !ok {
		return "", apperrors.NewLocationNotFoundError(query)
	}

	c.logger.Debug("location resolved", map[string]interface{}{
		"query":   query,
		"code":    loc.Code,
		"matches": len(resp.Locations),
	})
	return loc.Code, nil
}

// firstLocation applies the first-match-wins rule: the provider ranks
// locations by relevance and the head is taken.
func firstLocation(locations []location) (location, bool) {
	if len(locations) == 0 || strings.TrimSpace(locations[0].Code) == "" {
		return location{}, false
	}
	return locations[0], true
}

// FindCheapestFlight returns the cheapest round trip for q, or nil when the
// provider has no matching offer.
func (c *Client) FindCheapestFlight(ctx context.Context, q models.FlightQuery) (*models.FlightQuote, error) {
	params := url.Values{}
	params.Set("fly_from", q.FromCode)
	params.Set("fly_to", q.ToCode)
	params.Set("date_from", q.Window.DateFrom())
	params.Set("date_to", q.Window.DateTo())
	params.Set("nights_in_dst_from", strconv.Itoa(q.MinStayNights))
	params.Set("nights_in_dst_to", strconv.Itoa(q.MaxStayNights))
	params.Set("flight_type", "round")
	params.Set("one_for_city", "1")
	params.Set("curr", q.Currency)
	params.Set("sort", "price")

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.http.GetJSON(ctx, c.searchPath, params, &resp); err != nil {
		return nil, apperrors.NewFlightSearchError(q.FromCode, q.ToCode, err)
	}

	raw, ok := cheapestOffer(resp.Data)
	if !ok {
		return nil, nil
	}

	o, err := decodeOffer(raw)
	if err != nil {
		return nil, err
	}

	layovers, err := models.LayoversFromSegments(o.PNRCount)
	if err != nil {
		return nil, apperrors.NewMalformedOfferError(err.Error())
	}

	return &models.FlightQuote{
		Price:         o.Price,
		DepartureCity: o.CityFrom,
		DepartureCode: o.FlyFrom,
		ArrivalCity:   o.CityTo,
		ArrivalCode:   o.FlyTo,
		Layovers:      layovers,
		Airlines:      o.Airlines,
	}, nil
}

// cheapestOffer applies the lowest-price-first rule: results are requested
// sorted by price, so the head is the cheapest.
func cheapestOffer(offers []json.RawMessage) (json.RawMessage, bool) {
	if len(offers) == 0 {
		return nil, false
	}
	return offers[0], true
}

func decodeOffer(raw json.RawMessage) (*offer, error) {
	result, err := gojsonschema.Validate(offerSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, apperrors.NewMalformedOfferError(fmt.Sprintf("offer is not valid JSON: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, apperrors.NewMalformedOfferError(strings.Join(details, "; "))
	}

	var o offer
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, apperrors.NewMalformedOfferError(err.Error())
	}
	return &o, nil
}
