package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/menu"
)

var ErrMenuNotFound = errors.New("menu not found")

type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// MenuClient talks to the HTTP facade of the server.
type MenuClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMenuClient(baseURL string, httpClient *http.Client) *MenuClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &MenuClient{
		strings.TrimRight(baseURL, "/"),
		httpClient,
	}
}

// GetMenu returns ErrMenuNotFound when the chef never shared a menu. Any other
// error means the server could not be asked.
func (c *MenuClient) GetMenu(ctx context.Context, chefId string) (menu.Snapshot, error) {
	var snapshot menu.Snapshot

	resp, err := c.do(ctx, http.MethodGet, "/api/menu/"+url.PathEscape(chefId), nil)
	if err != nil {
		return snapshot, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return snapshot, ErrMenuNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return snapshot, statusError(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(&snapshot)
	if err != nil {
		return snapshot, fmt.Errorf("decode menu: %w", err)
	}

	return snapshot, nil
}

func (c *MenuClient) SaveMenu(ctx context.Context, chefId string, snapshot menu.Snapshot) error {
	return c.post(ctx, "/api/menu/"+url.PathEscape(chefId), snapshot)
}

// SendOrder publishes an order without a realtime connection.
func (c *MenuClient) SendOrder(ctx context.Context, chefId string, order broadcaster.Order) error {
	return c.post(ctx, "/api/orders/"+url.PathEscape(chefId), order)
}

func (c *MenuClient) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *MenuClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    body.Error,
	}
}
