// Package remote implements task.Repository against a dailyflow server over
// HTTP.
package remote

import (
	"bytes"
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

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/wire"
)

const defaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. "https://tasks.example.com".
	BaseURL string
	// Token is sent as a bearer token when set.
	Token string
	// Timeout bounds each request. Zero uses a 15s default.
	Timeout time.Duration
	// HTTPClient is the base client. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client talks to the task API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

var _ task.Repository = (*Client)(nil)

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("remote: base url is required")
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", base.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, src)
	} else {
		cp := *hc
		hc = &cp
	}

	hc.Timeout = opts.Timeout
	if hc.Timeout <= 0 {
		hc.Timeout = defaultTimeout
	}

	return &Client{
		base: base,
		http: hc,
		log:  logging.Component("remote"),
	}, nil
}

// GetAll lists up to task.ListLimit tasks, newest first.
func (c *Client) GetAll(ctx context.Context) ([]task.Task, error) {
	q := url.Values{}
	q.Set(wire.ParamLimit, strconv.Itoa(task.ListLimit))
	q.Set(wire.ParamOrder, wire.ListOrder)

	var resp wire.ListResponse
	if err := c.do(ctx, "list tasks", http.MethodGet, "/api/tasks", q, nil, &resp); err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(resp.Data))
	for _, r := range resp.Data {
		tasks = append(tasks, r.ToTask())
	}
	return tasks, nil
}

// GetByID fetches one task.
func (c *Client) GetByID(ctx context.Context, id int64) (task.Task, error) {
	var resp wire.DataResponse
	if err := c.do(ctx, "get task", http.MethodGet, taskPath(id), nil, nil, &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Data.ToTask(), nil
}

// Create sends a draft and returns the stored task.
func (c *Client) Create(ctx context.Context, d task.Draft) (task.Task, error) {
	var resp wire.DataResponse
	if err := c.do(ctx, "create task", http.MethodPost, "/api/tasks", nil, wire.FromDraft(d), &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Data.ToTask(), nil
}

// Update sends only the provided fields of p.
func (c *Client) Update(ctx context.Context, id int64, p task.Patch) (task.Task, error) {
	var resp wire.DataResponse
	if err := c.do(ctx, "update task", http.MethodPatch, taskPath(id), nil, wire.FromPatch(p), &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Data.ToTask(), nil
}

// Delete removes a task. It returns false without error when the server
// answers but reports that nothing was removed.
func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	var resp wire.DeleteResponse
	if err := c.do(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil, &resp); err != nil {
		return false, err
	}
	if !resp.Success {
		c.log.Warn().Int64("task_id", id).Str("reason", resp.Message).Msg("delete not applied")
	}
	return resp.Success, nil
}

// ToggleComplete asks the server to flip the completion flag.
func (c *Client) ToggleComplete(ctx context.Context, id int64) (task.Task, error) {
	var resp wire.DataResponse
	if err := c.do(ctx, "toggle task", http.MethodPost, taskPath(id)+"/toggle", nil, nil, &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Data.ToTask(), nil
}

// BulkUpdate sends one batched request and maps each per-record result.
func (c *Client) BulkUpdate(ctx context.Context, ids []int64, p task.Patch) ([]task.Outcome, error) {
	req := wire.BulkUpdateRequest{IDs: ids, Fields: wire.FromPatch(p)}

	var resp wire.BulkResponse
	if err := c.do(ctx, "bulk update tasks", http.MethodPost, "/api/tasks/bulk-update", nil, req, &resp); err != nil {
		return nil, err
	}
	return outcomes(resp.Results), nil
}

// BulkDelete sends one batched request and maps each per-record result.
func (c *Client) BulkDelete(ctx context.Context, ids []int64) ([]task.Outcome, error) {
	req := wire.BulkDeleteRequest{IDs: ids}

	var resp wire.BulkResponse
	if err := c.do(ctx, "bulk delete tasks", http.MethodPost, "/api/tasks/bulk-delete", nil, req, &resp); err != nil {
		return nil, err
	}
	return outcomes(resp.Results), nil
}

func outcomes(results []wire.BulkResult) []task.Outcome {
	out := make([]task.Outcome, 0, len(results))
	for _, r := range results {
		o := task.Outcome{ID: r.ID}
		switch {
		case !r.Success:
			o.Err = statusError(r.Status, wire.ErrorResponse{Message: r.Message}, r.ID)
		case r.Data != nil:
			t := r.Data.ToTask()
			o.Task = &t
		}
		out = append(out, o)
	}
	return out
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

// do performs one request. Transport failures and unexpected statuses come
// back wrapping task.ErrTransport; 404 and 400 map to task.ErrNotFound and
// task.ErrValidation.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logging.GetRequestID(ctx); rid != "" {
		req.Header.Set(wire.RequestIDHeader, rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Ctx(ctx).Err(err).Str("op", op).Msg("request failed")
		return task.TransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Ctx(ctx).
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr wire.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		err := statusError(resp.StatusCode, apiErr, 0)
		if errors.Is(err, task.ErrTransport) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return task.TransportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError maps an HTTP status onto the task error taxonomy.
func statusError(status int, body wire.ErrorResponse, id int64) error {
	switch status {
	case http.StatusNotFound:
		if id != 0 {
			return task.NotFoundError(id)
		}
		return fmt.Errorf("%s: %w", body.Message, task.ErrNotFound)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		field := body.Field
		if field == "" {
			field = "request"
		}
		return &task.ValidationError{Field: field, Message: body.Message}
	default:
		return fmt.Errorf("%w: status %d: %s", task.ErrTransport, status, body.Message)
	}
}
