package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-bot/internal/common/logger"
)

// testElasticClient runs a fake cluster endpoint and captures each request
// body.
func testElasticClient(t *testing.T, respond func(body map[string]interface{}) string) (*ElasticClient, *[]map[string]interface{}) {
	var bodies []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")

		var body map[string]interface{}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		bodies = append(bodies, body)
		w.Write([]byte(respond(body)))
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewElasticClient(es, "knowledge-base", 5*time.Second, logger.NewTestLogger(t)), &bodies
}

const hitsJSON = `{
	"hits": {"hits": [
		{"_score": 3.2, "_source": {"title": "Install a printer", "category": "hardware", "text": "Plug it in."}},
		{"_score": 1.1, "_source": {"title": "Replace toner", "category": "hardware", "text": "Open the tray."}}
	]}
}`

func TestElasticClient_SearchParsesHits(t *testing.T) {
	client, bodies := testElasticClient(t, func(map[string]interface{}) string { return hitsJSON })

	result, err := client.Search(context.Background(), "printer")
	require.NoError(t, err)

	require.Len(t, result.Value, 2)
	assert.Equal(t, "Install a printer", result.Value[0].Title)
	assert.Equal(t, 3.2, result.Value[0].Score)

	// The query went out as a multi_match over the weighted fields.
	require.Len(t, *bodies, 1)
	query := (*bodies)[0]["query"].(map[string]interface{})
	multiMatch := query["multi_match"].(map[string]interface{})
	assert.Equal(t, "printer", multiMatch["query"])
}

func TestElasticClient_FacetsParseAggregations(t *testing.T) {
	client, _ := testElasticClient(t, func(map[string]interface{}) string {
		return `{
			"hits": {"hits": []},
			"aggregations": {"category": {"buckets": [
				{"key": "software", "doc_count": 7},
				{"key": "hardware", "doc_count": 3}
			]}}
		}`
	})

	result, err := client.Facets(context.Background(), "category")
	require.NoError(t, err)

	facets := result.Facets["category"]
	require.Len(t, facets, 2)
	assert.Equal(t, "software", facets[0].Value)
	assert.Equal(t, 7, facets[0].Count)
}

func TestElasticClient_FilterUsesKeywordForTitle(t *testing.T) {
	client, bodies := testElasticClient(t, func(map[string]interface{}) string { return hitsJSON })

	_, err := client.Filter(context.Background(), "title", "Install a printer")
	require.NoError(t, err)

	query := (*bodies)[0]["query"].(map[string]interface{})
	term := query["term"].(map[string]interface{})
	assert.Contains(t, term, "title.keyword")
}

func TestElasticClient_FilterCategoryStaysExact(t *testing.T) {
	client, bodies := testElasticClient(t, func(map[string]interface{}) string { return hitsJSON })

	_, err := client.Filter(context.Background(), "category", "hardware")
	require.NoError(t, err)

	query := (*bodies)[0]["query"].(map[string]interface{})
	term := query["term"].(map[string]interface{})
	assert.Equal(t, "hardware", term["category"])
}
