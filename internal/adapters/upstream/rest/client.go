// Package rest implements the upstream collaborator ports over HTTP JSON.
// Responses use the records service envelope {success, data, message}.
package rest

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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/orbitcrm/record_console_app/internal/apperrors"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/core/ports/upstream"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

const defaultRetryWaitMax = 5 * time.Second

// Client talks to the upstream records service. Retries cover transport
// errors only; an HTTP-level failure is a final answer, resubmission is the
// user's call.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  upstream.TokenProvider
	logger  *slog.Logger
}

// NewClient builds a records-service client.
func NewClient(baseURL string, timeout time.Duration, retryMax int, tokens upstream.TokenProvider, logger *slog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return false, nil
	}

	return &Client{
		http:    retryClient.StandardClient(),
		baseURL: baseURL,
		tokens:  tokens,
		logger:  logger,
	}
}

var (
	_ upstream.ClientAPI = (*Client)(nil)
	_ upstream.TaskAPI   = (*Client)(nil)
)

// envelope is the records service response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message"`
}

// doJSON issues one request and decodes the envelope. Collaborator failure
// messages ride back verbatim on *upstream.Error.
func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtaining bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope[T]
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNotFound, &upstream.Error{StatusCode: resp.StatusCode, Message: env.Message})
	}
	if resp.StatusCode >= 400 || !env.Success {
		c.logger.Warn("Upstream call failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", env.Message),
		)
		return nil, &upstream.Error{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}

func requireData[T any](data *T, method, path string) (*T, error) {
	if data == nil {
		return nil, fmt.Errorf("%s %s: envelope carried no data", method, path)
	}
	return data, nil
}

// statusPatch is the single-field body for quick actions.
type statusPatch struct {
	Status string `json:"status"`
}

func (c *Client) CreateClient(ctx context.Context, payload dto.ClientPayload) (*domain.Client, error) {
	data, err := doJSON[domain.Client](ctx, c, http.MethodPost, "/clients", payload)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPost, "/clients")
}

func (c *Client) UpdateClient(ctx context.Context, id int64, payload dto.ClientPayload) (*domain.Client, error) {
	path := "/clients/" + strconv.FormatInt(id, 10)
	data, err := doJSON[domain.Client](ctx, c, http.MethodPut, path, payload)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPut, path)
}

func (c *Client) PatchClientStatus(ctx context.Context, id int64, status domain.ClientStatus) (*domain.Client, error) {
	path := "/clients/" + strconv.FormatInt(id, 10) + "/status"
	data, err := doJSON[domain.Client](ctx, c, http.MethodPatch, path, statusPatch{Status: string(status)})
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPatch, path)
}

func (c *Client) FetchClient(ctx context.Context, id int64) (*domain.Client, error) {
	path := "/clients/" + strconv.FormatInt(id, 10)
	data, err := doJSON[domain.Client](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodGet, path)
}

func (c *Client) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	path := "/clients?" + listQuery(limit, offset)
	data, err := doJSON[[]domain.Client](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []domain.Client{}, nil
	}
	return *data, nil
}

func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	path := "/clients/" + strconv.FormatInt(id, 10)
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, path, nil)
	return err
}

func (c *Client) CreateTask(ctx context.Context, payload dto.TaskPayload) (*domain.Task, error) {
	data, err := doJSON[domain.Task](ctx, c, http.MethodPost, "/tasks", payload)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPost, "/tasks")
}

func (c *Client) UpdateTask(ctx context.Context, id int64, payload dto.TaskPayload) (*domain.Task, error) {
	path := "/tasks/" + strconv.FormatInt(id, 10)
	data, err := doJSON[domain.Task](ctx, c, http.MethodPut, path, payload)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPut, path)
}

func (c *Client) PatchTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	path := "/tasks/" + strconv.FormatInt(id, 10) + "/status"
	data, err := doJSON[domain.Task](ctx, c, http.MethodPatch, path, statusPatch{Status: string(status)})
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodPatch, path)
}

func (c *Client) FetchTask(ctx context.Context, id int64) (*domain.Task, error) {
	path := "/tasks/" + strconv.FormatInt(id, 10)
	data, err := doJSON[domain.Task](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return requireData(data, http.MethodGet, path)
}

func (c *Client) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	path := "/tasks?" + listQuery(limit, offset)
	data, err := doJSON[[]domain.Task](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []domain.Task{}, nil
	}
	return *data, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := "/tasks/" + strconv.FormatInt(id, 10)
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, path, nil)
	return err
}

func listQuery(limit, offset int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q.Encode()
}
