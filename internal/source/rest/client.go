package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/models"
	"github.com/shrimpsizemoose/quizdash/internal/source"
)

const maxErrorBody = 512

// Client reads a table through a hosted PostgREST endpoint.
type Client struct {
	baseURL string
	key     string
	table   string
	http    *http.Client
}

func NewClient(baseURL, key, table string, timeout time.Duration) (*Client, error) {
	if baseURL == "" || key == "" {
		return nil, source.ErrNotConfigured
	}
	if err := source.ValidateTable(table); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		table:   table,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Name() string {
	return string(source.BackendREST)
}

func (c *Client) FetchAll(ctx context.Context) ([]models.Record, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?select=*&order=created_at.desc", c.baseURL, c.table)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	logger.Debug.Printf("Fetching %s from %s", c.table, c.baseURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &source.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	records := []models.Record{}
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode %s rows: %w", c.table, err)
	}

	return records, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
