package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomnomnom/linkheader"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const pageLimit = 250

var ErrNotConfigured = errors.New("shopify credentials not set")

// APIError is a non-2xx answer from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api error: %d - %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient builds a client for baseURL (https://<shop>/admin/api/<version>).
func NewClient(baseURL, accessToken string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger.Named("shopify"),
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.accessToken != ""
}

// ListCheckouts fetches every page of checkouts.json for the query,
// following rel="next" links until none is left.
func (c *Client) ListCheckouts(ctx context.Context, q CheckoutQuery) ([]Checkout, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = pageLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if !q.CreatedAtMin.IsZero() {
		params.Set("created_at_min", q.CreatedAtMin.UTC().Format(time.RFC3339))
	}
	if !q.CreatedAtMax.IsZero() {
		params.Set("created_at_max", q.CreatedAtMax.UTC().Format(time.RFC3339))
	}
	if q.Email != "" {
		params.Set("email", q.Email)
	}

	checkouts := []Checkout{}
	pages, err := c.paginate(ctx, c.baseURL+"/checkouts.json?"+params.Encode(), func(body []byte) error {
		var page checkoutsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("decode checkouts: %w", err)
		}
		checkouts = append(checkouts, page.Checkouts...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("📦 checkouts fetched", zap.Int("count", len(checkouts)), zap.Int("pages", pages))
	return checkouts, nil
}

// GetCheckout loads one checkout. A leading '#' on the id is ignored.
func (c *Client) GetCheckout(ctx context.Context, id string) (*Checkout, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "#")
	body, _, err := c.get(ctx, c.baseURL+"/checkouts/"+url.PathEscape(id)+".json")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	var resp checkoutResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	if resp.Checkout == nil {
		return nil, entity.ErrNotFound
	}
	return resp.Checkout, nil
}

// ListProducts walks the whole catalog using page_info cursors.
func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products := []entity.Product{}
	pages, err := c.paginate(ctx, c.baseURL+"/products.json?limit="+strconv.Itoa(pageLimit), func(body []byte) error {
		var page productsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("decode products: %w", err)
		}
		products = append(products, page.Products...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("🛍️ products fetched", zap.Int("count", len(products)), zap.Int("pages", pages))
	return products, nil
}

func (c *Client) paginate(ctx context.Context, next string, handle func([]byte) error) (int, error) {
	pages := 0
	for next != "" {
		body, header, err := c.get(ctx, next)
		if err != nil {
			return pages, err
		}
		if err := handle(body); err != nil {
			return pages, err
		}
		pages++
		next = nextLink(header.Get("Link"))
	}
	return pages, nil
}

// nextLink extracts the rel="next" target of a Link header.
func nextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, l := range linkheader.Parse(header).FilterByRel("next") {
		if l.URL != "" {
			return l.URL
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, http.Header, error) {
	if !c.Configured() {
		return nil, nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("❌ request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("⚠️ api returned error",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, resp.Header, nil
}
