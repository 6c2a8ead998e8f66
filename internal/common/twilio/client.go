package twilio

import (
	"context"
	"fmt"
	"net/url"
	"time"

	httpclient "flight-deals/internal/common/http"
)

// Client sends SMS through the Twilio Programmable Messaging REST API.
type Client struct {
	http       *httpclient.Client
	accountSID string
}

// Message is the subset of the Twilio message resource the run logs.
type Message struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	To           string  `json:"to"`
	From         string  `json:"from"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

func NewClient(baseURL, accountSID, authToken string, timeout time.Duration) *Client {
	return &Client{
		http:       httpclient.NewClient(baseURL, timeout, httpclient.WithBasicAuth(accountSID, authToken)),
		accountSID: accountSID,
	}
}

// SendMessage creates an outbound message. A 2xx response means Twilio
// accepted it; delivery continues asynchronously.
func (c *Client) SendMessage(ctx context.Context, body, from, to string) (*Message, error) {
	form := url.Values{}
	form.Set("Body", body)
	form.Set("From", from)
	form.Set("To", to)

	var msg Message
	path := fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID)
	if _, err := c.http.PostForm(ctx, path, form, &msg); err != nil {
		return nil, fmt.Errorf("twilio send message: %w", err)
	}
	return &msg, nil
}
