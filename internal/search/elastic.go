package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"helpdesk-bot/internal/common/logger"
	"helpdesk-bot/internal/models"
)

// ElasticClient serves the knowledge-base contract from a self-hosted
// Elasticsearch index. The index maps category as a keyword and title as
// text with a .keyword subfield.
type ElasticClient struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
	logger  logger.Logger
}

func NewElasticClient(client *elasticsearch.Client, index string, timeout time.Duration, log logger.Logger) *ElasticClient {
	return &ElasticClient{
		client:  client,
		index:   index,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "search", "backend": "elasticsearch"}),
	}
}

func (c *ElasticClient) Search(ctx context.Context, text string) (*Result, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"title^3", "text^2", "category"},
				"type":   "best_fields",
			},
		},
	}
	return c.execute(ctx, body)
}

func (c *ElasticClient) Facets(ctx context.Context, field string) (*Result, error) {
	size := 0
	body := map[string]interface{}{
		"aggs": map[string]interface{}{
			field: map[string]interface{}{
				"terms": map[string]interface{}{
					"field": keywordField(field),
					"size":  20,
				},
			},
		},
	}
	result, err := c.execute(ctx, body, withSize(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFacetQueryFailed, err)
	}
	return result, nil
}

func (c *ElasticClient) Filter(ctx context.Context, field, value string) (*Result, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				keywordField(field): value,
			},
		},
	}
	return c.execute(ctx, body)
}

// keywordField maps a logical field to the exact-match field in the index.
func keywordField(field string) string {
	if field == "title" {
		return "title.keyword"
	}
	return field
}

type searchOption func(*esapi.SearchRequest)

func withSize(size int) searchOption {
	return func(req *esapi.SearchRequest) {
		req.Size = &size
	}
}

// esResponse mirrors the subset of the search response the bot consumes.
type esResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64        `json:"_score"`
			Source models.Article `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int    `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

func (c *ElasticClient) execute(ctx context.Context, body map[string]interface{}, opts ...searchOption) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	encoded, _ := json.Marshal(body)

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  strings.NewReader(string(encoded)),
	}
	for _, opt := range opts {
		opt(&req)
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, res.Status())
	}

	var parsed esResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}

	result := &Result{Value: make([]models.Article, 0, len(parsed.Hits.Hits))}
	for _, hit := range parsed.Hits.Hits {
		article := hit.Source
		article.Score = hit.Score
		result.Value = append(result.Value, article)
	}

	if len(parsed.Aggregations) > 0 {
		result.Facets = make(map[string][]models.Facet, len(parsed.Aggregations))
		for name, agg := range parsed.Aggregations {
			facets := make([]models.Facet, 0, len(agg.Buckets))
			for _, bucket := range agg.Buckets {
				facets = append(facets, models.Facet{Value: bucket.Key, Count: bucket.DocCount})
			}
			result.Facets[name] = facets
		}
	}

	c.logger.Debug("query completed", map[string]interface{}{
		"index": c.index,
		"hits":  len(result.Value),
	})

	return result, nil
}
