package sheety

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"flight-deals/internal/common/config"
	apperrors "flight-deals/internal/common/errors"
	httpclient "flight-deals/internal/common/http"
	"flight-deals/internal/common/logger"
	"flight-deals/internal/models"
)

// Client talks to a Google Sheet exposed through the Sheety REST API.
// The collection key is the sheet name ("prices"); single-row bodies are
// wrapped in the record key ("price").
type Client struct {
	http      *httpclient.Client
	sheet     string
	recordKey string
	logger    logger.Logger
}

type row struct {
	ID          int     `json:"id"`
	City        string  `json:"city"`
	LowestPrice float64 `json:"lowestPrice"`
	IATACode    string  `json:"iataCode"`
}

func NewClient(cfg config.SheetyConfig, timeout time.Duration, log logger.Logger) *Client {
	opts := []httpclient.Option{}
	if cfg.Token != "" {
		opts = append(opts, httpclient.WithHeader("Authorization", "Bearer "+cfg.Token))
	}
	return &Client{
		http:      httpclient.NewClient(cfg.Endpoint(), timeout, opts...),
		sheet:     cfg.Sheet,
		recordKey: cfg.RecordKey,
		logger:    log.WithFields(map[string]interface{}{"store": "sheety"}),
	}
}

// ListDestinations returns every row in sheet order.
func (c *Client) ListDestinations(ctx context.Context) ([]models.DestinationRow, error) {
	var payload map[string][]row
	if err := c.http.GetJSON(ctx, "", url.Values{}, &payload); err != nil {
		return nil, apperrors.NewDestinationSourceError(err)
	}

	rows, ok := payload[c.sheet]
	if !ok {
		return nil, apperrors.NewDestinationSourceError(fmt.Errorf("response has no %q collection", c.sheet))
	}

	out := make([]models.DestinationRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toModel(r))
	}
	return out, nil
}

// UpdateDestinationCode sets the iataCode column of one row.
func (c *Client) UpdateDestinationCode(ctx context.Context, rowID int, code string) error {
	body := map[string]interface{}{
		c.recordKey: map[string]string{"iataCode": code},
	}
	raw, err := c.http.SendJSON(ctx, http.MethodPut, fmt.Sprintf("/%d", rowID), body, nil)
	if err != nil {
		return apperrors.NewDestinationUpdateError(rowID, err)
	}
	c.logger.Debug("destination code updated", map[string]interface{}{
		"rowId":    rowID,
		"iataCode": code,
		"response": string(raw),
	})
	return nil
}

// AddDestination appends a row and returns it with the id Sheety assigned.
func (c *Client) AddDestination(ctx context.Context, dest models.DestinationRow) (models.DestinationRow, error) {
	body := map[string]interface{}{
		c.recordKey: map[string]interface{}{
			"city":        dest.City,
			"lowestPrice": dest.LowestPrice,
			"iataCode":    dest.IATACode,
		},
	}
	var created map[string]row
	if _, err := c.http.SendJSON(ctx, http.MethodPost, "", body, &created); err != nil {
		return models.DestinationRow{}, apperrors.NewDestinationUpdateError(0, err)
	}
	r, ok := created[c.recordKey]
	if !ok {
		return models.DestinationRow{}, apperrors.NewDestinationUpdateError(0, fmt.Errorf("response has no %q object", c.recordKey))
	}
	return toModel(r), nil
}

func toModel(r row) models.DestinationRow {
	return models.DestinationRow{
		ID:          r.ID,
		City:        r.City,
		LowestPrice: r.LowestPrice,
		IATACode:    r.IATACode,
	}
}
