package permissiongateway

import (
	"context"
	"docproxy/internal/models"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const pkg = "permissionGateway/"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// CanEdit asks the permission service whether the user may edit documents in
// the workgroup. The result is never cached: permissions change out of band.
func (c *Client) CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error) {
	op := pkg + "CanEdit"

	endpoint := fmt.Sprintf("%s/permissions/edit?user=%s&workgroup=%s",
		c.baseURL, url.QueryEscape(user.ID), url.QueryEscape(workgroup))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var result struct {
		Allowed bool `json:"allowed"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return result.Allowed, nil
}
