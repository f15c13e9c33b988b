package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	openLibraryProvider = "open library"
	openLibraryCovers   = "https://covers.openlibrary.org/b/isbn"
	userAgent           = "PersonalLibrary/1.0"
)

// OpenLibraryClient fetches book records from the Open Library API and
// converts them to VolumeRecord.
type OpenLibraryClient struct {
	httpClient  *resty.Client
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

// NewOpenLibraryClient creates an Open Library client limited to one
// request per interval.
func NewOpenLibraryClient(baseURL string, timeout, interval time.Duration) *OpenLibraryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &OpenLibraryClient{
		httpClient:  client,
		rateLimiter: newRateLimiter(interval),
	}
}

// Lookup fetches the edition for the ISBN and resolves its author names.
func (c *OpenLibraryClient) Lookup(ctx context.Context, isbn string) (*VolumeRecord, error) {
	var edition openLibraryEdition
	status, err := c.getJSON(ctx, fmt.Sprintf("/isbn/%s.json", isbn), &edition)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrNotFound, status)
	}

	record := c.convertToRecord(&edition, isbn)

	// Only authors unknown to Open Library are skipped; any other failure
	// fails the lookup.
	for _, ref := range edition.Authors {
		name, err := c.fetchAuthorName(ctx, ref.Key)
		if err != nil {
			return nil, err
		}
		if name != "" {
			record.Authors = append(record.Authors, name)
		}
	}

	return record, nil
}

// fetchAuthorName returns "" for authors Open Library does not know.
func (c *OpenLibraryClient) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", nil
	}

	var author struct {
		Name string `json:"name"`
	}
	status, err := c.getJSON(ctx, authorKey+".json", &author)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		return author.Name, nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", &TransportError{
			Provider: openLibraryProvider,
			Err:      fmt.Errorf("author %s: unexpected status: %d", authorKey, status),
		}
	}
}

// getJSON performs a rate limited GET and decodes a 200 body into out.
func (c *OpenLibraryClient) getJSON(ctx context.Context, path string, out any) (int, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return 0, &TransportError{Provider: openLibraryProvider, Err: err}
	}

	res, err := c.httpClient.R().SetContext(ctx).Get(path)
	if err != nil {
		return 0, &TransportError{Provider: openLibraryProvider, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return res.StatusCode(), nil
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return 0, &TransportError{Provider: openLibraryProvider, Err: fmt.Errorf("decode response: %w", err)}
	}
	return res.StatusCode(), nil
}

func (c *OpenLibraryClient) convertToRecord(edition *openLibraryEdition, isbn string) *VolumeRecord {
	record := &VolumeRecord{
		Title:         edition.Title,
		Subtitle:      nonEmpty(edition.Subtitle),
		PublishedDate: nonEmpty(edition.PublishDate),
	}

	for _, id := range edition.ISBN13 {
		record.IndustryIdentifiers = append(record.IndustryIdentifiers, IndustryIdentifier{Type: IdentifierISBN13, Identifier: id})
	}
	for _, id := range edition.ISBN10 {
		record.IndustryIdentifiers = append(record.IndustryIdentifiers, IndustryIdentifier{Type: IdentifierISBN10, Identifier: id})
	}

	if len(edition.Publishers) > 0 {
		record.Publisher = nonEmpty(edition.Publishers[0])
	}
	if edition.NumberOfPages > 0 {
		pages := edition.NumberOfPages
		record.PageCount = &pages
	}

	// Description can be a plain string or {type, value}
	switch v := edition.Description.(type) {
	case string:
		record.Description = nonEmpty(v)
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			record.Description = nonEmpty(val)
		}
	}

	if len(edition.Subjects) > 0 {
		record.Categories = edition.Subjects
	}

	if len(edition.Covers) > 0 {
		record.ImageLinks = &ImageLinks{
			SmallThumbnail: fmt.Sprintf("%s/%s-S.jpg", openLibraryCovers, isbn),
			Thumbnail:      fmt.Sprintf("%s/%s-M.jpg", openLibraryCovers, isbn),
		}
	}

	return record
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Open Library API response types (internal)

type openLibraryEdition struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []authorRef `json:"authors"`
	Publishers    []string    `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Description   any         `json:"description"` // Can be string or {type, value}
	Subjects      []string    `json:"subjects"`
	ISBN10        []string    `json:"isbn_10"`
	ISBN13        []string    `json:"isbn_13"`
	Covers        []int       `json:"covers"`
}

type authorRef struct {
	Key string `json:"key"`
}
