package recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"helpdesk-bot/internal/common/logger"
)

var (
	ErrExtractionFailed  = errors.New("EXTRACTION_FAILED")
	ErrRecognizerTimeout = errors.New("RECOGNIZER_TIMEOUT")
)

// LUISClient calls a hosted LUIS-style model endpoint. The model URL already
// carries the subscription key; the utterance is appended as the q parameter.
type LUISClient struct {
	modelURL string
	client   *http.Client
	logger   logger.Logger
}

func NewLUISClient(modelURL string, timeout time.Duration, log logger.Logger) *LUISClient {
	return &LUISClient{
		modelURL: modelURL,
		client:   &http.Client{Timeout: timeout},
		logger:   log.WithFields(map[string]interface{}{"component": "recognizer"}),
	}
}

// luisResponse mirrors the wire shape of the hosted model endpoint.
type luisResponse struct {
	Query            string `json:"query"`
	TopScoringIntent struct {
		Intent string  `json:"intent"`
		Score  float64 `json:"score"`
	} `json:"topScoringIntent"`
	Entities []struct {
		Entity     string `json:"entity"`
		Type       string `json:"type"`
		Resolution struct {
			Values []string `json:"values"`
		} `json:"resolution"`
	} `json:"entities"`
}

func (c *LUISClient) Recognize(ctx context.Context, utterance string) (*IntentMatch, error) {
	reqURL := c.modelURL + "&q=" + url.QueryEscape(utterance)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrRecognizerTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExtractionFailed, resp.StatusCode)
	}

	var apiResponse luisResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrExtractionFailed, err)
	}

	match := &IntentMatch{
		Intent:   apiResponse.TopScoringIntent.Intent,
		Score:    apiResponse.TopScoringIntent.Score,
		Entities: make([]Entity, 0, len(apiResponse.Entities)),
	}
	for _, e := range apiResponse.Entities {
		match.Entities = append(match.Entities, Entity{
			Type:           e.Type,
			ResolvedValues: e.Resolution.Values,
			RawText:        e.Entity,
		})
	}

	c.logger.Debug("utterance classified", map[string]interface{}{
		"intent":      match.Intent,
		"score":       match.Score,
		"entityCount": len(match.Entities),
	})

	return match, nil
}
