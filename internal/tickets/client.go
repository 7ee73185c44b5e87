// Package tickets implements ticket submission: the HTTP client the
// SubmitTicket flow calls, the API endpoint backing it, and the channel
// notifications fired when a ticket lands.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhttp "helpdesk-bot/internal/common/http"
	"helpdesk-bot/internal/common/metrics"
	"helpdesk-bot/internal/models"
)

// ErrTicketRejected is returned when the API answers with the -1 sentinel,
// meaning the ticket was received but could not be stored.
var ErrTicketRejected = errors.New("TICKET_REJECTED")

// RejectedID is the sentinel the API returns in place of a ticket id when
// storage fails.
const RejectedID = -1

// Submitter saves a completed ticket and returns its assigned id.
type Submitter interface {
	Submit(ctx context.Context, ticket models.Ticket) (int64, error)
}

// Client submits tickets to the API over HTTP.
type Client struct {
	baseURL    string
	httpClient *commonhttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: commonhttp.NewClient(timeout),
	}
}

// Submit posts the ticket as JSON and parses the response body as the new
// ticket id. A -1 body or any transport problem means the ticket was not
// saved.
func (c *Client) Submit(ctx context.Context, ticket models.Ticket) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.ExternalRequestDuration.WithLabelValues("tickets_api").Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(ticket)
	if err != nil {
		return RejectedID, fmt.Errorf("encode ticket: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/tickets", bytes.NewReader(payload))
	if err != nil {
		return RejectedID, fmt.Errorf("build ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return RejectedID, fmt.Errorf("submit ticket: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RejectedID, fmt.Errorf("read ticket response: %w", err)
	}

	id, err := parseTicketID(body)
	if err != nil {
		return RejectedID, fmt.Errorf("parse ticket response %q: %w", string(body), err)
	}
	if id == RejectedID {
		return RejectedID, ErrTicketRejected
	}
	return id, nil
}

// parseTicketID accepts the bare number the API writes, with or without
// JSON string quoting.
func parseTicketID(body []byte) (int64, error) {
	text := strings.TrimSpace(string(body))
	text = strings.Trim(text, `"`)
	return strconv.ParseInt(text, 10, 64)
}
