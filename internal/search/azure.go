package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"helpdesk-bot/internal/common/config"
	httpclient "helpdesk-bot/internal/common/http"
	"helpdesk-bot/internal/common/logger"
)

const azureAPIVersion = "2017-11-11"

// AzureClient queries an Azure Search index through its querystring API:
// search=<text>, facet=<field>, $filter=<OData predicate>.
type AzureClient struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
	logger  logger.Logger
}

func NewAzureClient(cfg config.AzureSearchConfig, timeout time.Duration, log logger.Logger) *AzureClient {
	return &AzureClient{
		baseURL: cfg.GetBaseURL(),
		apiKey:  cfg.APIKey,
		client:  httpclient.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "search", "backend": "azure"}),
	}
}

func (c *AzureClient) Search(ctx context.Context, text string) (*Result, error) {
	return c.query(ctx, "search="+url.QueryEscape(text))
}

func (c *AzureClient) Facets(ctx context.Context, field string) (*Result, error) {
	result, err := c.query(ctx, "facet="+url.QueryEscape(field))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFacetQueryFailed, err)
	}
	return result, nil
}

func (c *AzureClient) Filter(ctx context.Context, field, value string) (*Result, error) {
	predicate := fmt.Sprintf("%s eq '%s'", field, value)
	return c.query(ctx, "$filter="+url.QueryEscape(predicate))
}

// query issues one GET against the docs endpoint with the given raw
// querystring fragment appended.
func (c *AzureClient) query(ctx context.Context, rawQuery string) (*Result, error) {
	reqURL := fmt.Sprintf("%s?api-version=%s&%s", c.baseURL, azureAPIVersion, rawQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrQueryFailed, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}

	c.logger.Debug("query completed", map[string]interface{}{
		"query": rawQuery,
		"hits":  len(result.Value),
	})

	return &result, nil
}
