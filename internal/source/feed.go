package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	readings "booth-monitor/internal/readings/domain"
)

// ErrFeedUnavailable marks an unreachable or unknown feed worksheet.
// Callers treat it the same as an absent local resource.
var ErrFeedUnavailable = errors.New("source: feed unavailable")

// FeedClient is a minimal REST client for the remote live sheet feed.
// The credential is an opaque bearer token resolved at startup; its
// lifecycle is outside this client.
type FeedClient struct {
	baseURL   string
	token     string
	sheet     string
	worksheet string
	client    *http.Client
}

// NewFeedClient constructs a feed client.
func NewFeedClient(baseURL, token, sheet, worksheet string) (*FeedClient, error) {
	if baseURL == "" {
		return nil, errors.New("source: empty feed base url")
	}
	if sheet == "" || worksheet == "" {
		return nil, errors.New("source: empty sheet or worksheet")
	}
	return &FeedClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		sheet:     sheet,
		worksheet: worksheet,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type feedResponse struct {
	Records []map[string]any `json:"records"`
}

// Records fetches all rows of the worksheet as row-oriented records.
// Unreachable feeds and unknown worksheets return ErrFeedUnavailable.
func (c *FeedClient) Records(ctx context.Context) ([]readings.RawRecord, error) {
	if c == nil {
		return nil, errors.New("source: nil feed client")
	}

	path := fmt.Sprintf("/api/v1/sheets/%s/worksheets/%s/records",
		url.PathEscape(c.sheet), url.PathEscape(c.worksheet))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrFeedUnavailable
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", ErrFeedUnavailable, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFeedUnavailable, err)
	}

	records := make([]readings.RawRecord, 0, len(payload.Records))
	for _, row := range payload.Records {
		record := readings.RawRecord{}
		for key, value := range row {
			record[key] = formatCell(value)
		}
		records = append(records, record)
	}
	return records, nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
