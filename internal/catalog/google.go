package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const googleBooksProvider = "google books"

// GoogleBooksClient fetches volume records from the Google Books API.
// Lookups are not retried: a failure is reported to the caller as-is.
type GoogleBooksClient struct {
	httpClient *resty.Client
	apiKey     string
}

type googleVolumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo VolumeRecord `json:"volumeInfo"`
	} `json:"items"`
}

// NewGoogleBooksClient creates a client for the API rooted at baseURL,
// e.g. https://www.googleapis.com/books/v1. apiKey may be empty.
func NewGoogleBooksClient(baseURL, apiKey string, timeout time.Duration) *GoogleBooksClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &GoogleBooksClient{
		httpClient: client,
		apiKey:     apiKey,
	}
}

// Lookup returns the first volume matching the ISBN.
func (c *GoogleBooksClient) Lookup(ctx context.Context, isbn string) (*VolumeRecord, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", "isbn:"+isbn)
	if c.apiKey != "" {
		req.SetQueryParam("key", c.apiKey)
	}

	res, err := req.Get("/volumes")
	if err != nil {
		return nil, &TransportError{Provider: googleBooksProvider, Err: err}
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: status code %d", ErrNotFound, res.StatusCode())
	}

	var body googleVolumesResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return nil, &TransportError{Provider: googleBooksProvider, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(body.Items) == 0 {
		return nil, ErrNotFound
	}

	record := body.Items[0].VolumeInfo
	return &record, nil
}
