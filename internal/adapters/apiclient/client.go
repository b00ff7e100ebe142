package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBasePath = "/api/v1"
	DefaultTimeout  = 5 * time.Second

	maxResponseBytes = 8 << 20
	requestIDHeader  = "X-Request-ID"
)

type Options struct {
	BaseURL     string
	BasePath    string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Credentials ports.CredentialSource
	Logger      *zap.Logger
}

// Client talks to the sales analytics backend. It is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	timeout     time.Duration
	httpClient  *http.Client
	credentials ports.CredentialSource
	logger      *zap.Logger
}

var _ ports.SalesAPI = (*Client)(nil)

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}

	basePath := opts.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/" + strings.Trim(basePath, "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     parsed,
		timeout:     timeout,
		httpClient:  httpClient,
		credentials: opts.Credentials,
		logger:      logger.Named("apiclient"),
	}, nil
}

// URL resolves path relative to the base URL and base path.
func (c *Client) URL(path string, params url.Values) string {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + strings.TrimLeft(path, "/")
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

// Do performs a single request and decodes a JSON body into out. It never retries.
func (c *Client) Do(ctx context.Context, method string, path string, params url.Values, out any) error {
	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, c.URL(path, params), nil)
	if err != nil {
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.credentials != nil {
		if token, ok := c.credentials.Credential(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindTransport
		if isTimeout(requestCtx, err) {
			kind = KindTimeout
		}
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
		return &Error{Kind: kind, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(started)),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		kind := KindTransport
		if isTimeout(requestCtx, err) {
			kind = KindTimeout
		}
		return &Error{Kind: kind, Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &Error{
			Kind:       KindStatus,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	return nil
}

func (c *Client) Customers(ctx context.Context) ([]string, error) {
	var customers []string
	if err := c.Do(ctx, http.MethodGet, "/customers/", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// SalesData requests orders and series for customers. page is sent only past the
// first page.
func (c *Client) SalesData(ctx context.Context, customers []string, page int) (domain.SalesData, error) {
	params := url.Values{}
	for _, customer := range customers {
		params.Add("customers", customer)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var data domain.SalesData
	if err := c.Do(ctx, http.MethodGet, "/sales-data/", params, &data); err != nil {
		return domain.SalesData{}, err
	}
	return data, nil
}

func (c *Client) SegmentCustomers(ctx context.Context) ([]domain.Segment, error) {
	var segments []domain.Segment
	if err := c.Do(ctx, http.MethodGet, "/ai/segment-customers/", nil, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

func (c *Client) PredictSales(ctx context.Context, futureDates []string) (domain.Forecast, error) {
	params := url.Values{}
	for _, date := range futureDates {
		params.Add("future_dates", date)
	}

	var forecast domain.Forecast
	if err := c.Do(ctx, http.MethodGet, "/ai/predict-sales/", params, &forecast); err != nil {
		return domain.Forecast{}, err
	}
	return forecast, nil
}

func (c *Client) SalesTrend(ctx context.Context) (domain.SalesTrend, error) {
	var trend domain.SalesTrend
	if err := c.Do(ctx, http.MethodGet, "/sales/trend", nil, &trend); err != nil {
		return domain.SalesTrend{}, err
	}
	return trend, nil
}

func (c *Client) SalesHeatmap(ctx context.Context) (domain.Heatmap, error) {
	var heatmap domain.Heatmap
	if err := c.Do(ctx, http.MethodGet, "/sales/heatmap", nil, &heatmap); err != nil {
		return domain.Heatmap{}, err
	}
	return heatmap, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type errorResponse struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func errorMessage(body []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(payload.Detail, &detail); err == nil {
				return detail
			}
			return string(payload.Detail)
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	message := strings.TrimSpace(string(body))
	if len(message) > 200 {
		message = message[:200]
	}
	return message
}
