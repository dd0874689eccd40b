// Package googlebooks searches the Google Books volumes API for catalog
// browsing. Results are trimmed down to what the catalog page renders.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// MaxResults is the hard cap the catalog requests; the volumes API
// rejects anything above 40.
const MaxResults = 40

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    "https://www.googleapis.com/books/v1",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// Book is a catalog search hit.
type Book struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
}

// volumesResponse matches the volumes endpoint payload.
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title      string   `json:"title"`
			Authors    []string `json:"authors"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search returns up to limit volumes matching term. Limit is clamped
// to MaxResults.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Book, error) {
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	u := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d", c.baseURL, url.QueryEscape(term), limit)

	var res volumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(res.Items))
	for _, item := range res.Items {
		books = append(books, Book{
			ID:           item.ID,
			Title:        item.VolumeInfo.Title,
			Authors:      item.VolumeInfo.Authors,
			ThumbnailURL: item.VolumeInfo.ImageLinks.Thumbnail,
		})
	}
	return books, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
