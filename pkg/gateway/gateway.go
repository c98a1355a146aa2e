// Package gateway talks to the finance backend over HTTPS with bearer-token
// auth. The sync engine depends only on the API interface; Client is the
// production implementation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ulwww/fintrack/pkg/dto"
)

// dateOnlyLayout is used for period query parameters; the server filters by
// whole days, so the caller re-filters to the exact bound it wants.
const dateOnlyLayout = "2006-01-02"

// API is the remote surface the sync engine consumes.
type API interface {
	Accounts(ctx context.Context) ([]dto.AccountResponse, error)
	UpdateAccount(ctx context.Context, id int64, req dto.AccountUpdateRequest) (*dto.AccountResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryResponse, error)
	CategoriesByDirection(ctx context.Context, income bool) ([]dto.CategoryResponse, error)
	TransactionsForPeriod(ctx context.Context, accountID int64, start, end time.Time) ([]dto.TransactionResponse, error)
	CreateTransaction(ctx context.Context, req dto.TransactionRequest) (*dto.TransactionResponse, error)
	UpdateTransaction(ctx context.Context, id int64, req dto.TransactionRequest) (*dto.TransactionResponse, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a gateway client. timeout bounds every request; a timed
// out request surfaces as ErrUnreachable.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		c.logger.Warn("remote returned error status",
			"method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)
		return &StatusError{Code: resp.StatusCode, Body: raw}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *Client) Accounts(ctx context.Context) ([]dto.AccountResponse, error) {
	var out []dto.AccountResponse
	if err := c.do(ctx, http.MethodGet, "accounts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateAccount(ctx context.Context, id int64, req dto.AccountUpdateRequest) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	path := "accounts/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var out []dto.CategoryResponse
	if err := c.do(ctx, http.MethodGet, "categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CategoriesByDirection(ctx context.Context, income bool) ([]dto.CategoryResponse, error) {
	var out []dto.CategoryResponse
	path := "categories/type/" + strconv.FormatBool(income)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TransactionsForPeriod(ctx context.Context, accountID int64, start, end time.Time) ([]dto.TransactionResponse, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(dateOnlyLayout))
	query.Set("endDate", end.UTC().Format(dateOnlyLayout))
	path := fmt.Sprintf("transactions/account/%d/period", accountID)
	var out []dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "transactions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id int64, req dto.TransactionRequest) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	path := "transactions/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	path := "transactions/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
