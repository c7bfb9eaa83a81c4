package remotegateway

import (
	"bytes"
	"context"
	"docproxy/internal/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const pkg = "remoteGateway/"

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) GetMetadata(ctx context.Context, workgroup string, id string) (*models.RemoteMetadata, error) {
	op := pkg + "GetMetadata"

	endpoint := fmt.Sprintf("%s/workgroups/%s/documents/%s",
		c.baseURL, url.PathEscape(workgroup), url.PathEscape(id))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	default:
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var meta models.RemoteMetadata

	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &meta, nil
}

func (c *Client) DownloadBytes(ctx context.Context, workgroup string, id string) (io.ReadCloser, error) {
	op := pkg + "DownloadBytes"

	endpoint := fmt.Sprintf("%s/workgroups/%s/documents/%s/content",
		c.baseURL, url.PathEscape(workgroup), url.PathEscape(id))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	return resp.Body, nil
}

// CreateFromURL asks the remote store to ingest a new document revision from
// a URL it can reach itself, under the given parent.
func (c *Client) CreateFromURL(ctx context.Context, workgroup string, srcURL string, fileName string, parent string) error {
	op := pkg + "CreateFromURL"

	endpoint := fmt.Sprintf("%s/workgroups/%s/documents/from-url",
		c.baseURL, url.PathEscape(workgroup))

	body, err := json.Marshal(map[string]any{
		"url":       srcURL,
		"file_name": fileName,
		"parent":    parent,
		"async":     false,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}
