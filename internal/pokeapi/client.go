package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/validation"
)

var _ Fetcher = (*Client)(nil)

// Client talks to the GraphQL endpoint. It is safe for concurrent use.
type Client struct {
	endpoint string
	language string
	http     *resty.Client
	limiter  ratelimit.Limiter
}

// QueryError carries the messages of a GraphQL errors array.
type QueryError struct {
	Operation string
	Messages  []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

type request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewClient(cfg config.APIConfig) (*Client, error) {
	endpoint, err := validation.NewEndpointValidator().ValidateAndNormalize(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.RetryCount > 0 {
		// Queries are read-only, so retrying a POST is safe.
		httpClient.SetAllowNonIdempotentRetry(true)
	}
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		endpoint: endpoint,
		language: lang,
		http:     httpClient,
		limiter:  limiter,
	}, nil
}

func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

func (c *Client) Close() error {
	if c == nil || c.http == nil {
		return nil
	}
	return c.http.Close()
}

func (c *Client) FetchList(ctx context.Context, q ListQuery) (*ListResult, error) {
	if c == nil {
		return nil, errors.New("pokeapi client unavailable")
	}
	pattern := q.Pattern
	if pattern == "" {
		pattern = MatchAll
	}

	var data listData
	err := c.do(ctx, listOperation, listDocument, map[string]any{
		"search": pattern,
		"first":  q.Limit,
		"offset": q.Offset,
		"lang":   c.language,
	}, &data)
	if err != nil {
		return nil, err
	}

	res := normalizeList(data)
	debuglog.WithFields(map[string]interface{}{
		"pattern": pattern,
		"offset":  q.Offset,
		"limit":   q.Limit,
	}).Debugf("list returned %d of %d", len(res.Items), res.TotalCount)
	return res, nil
}

func (c *Client) FetchDetail(ctx context.Context, id int) (*Detail, error) {
	if c == nil {
		return nil, errors.New("pokeapi client unavailable")
	}

	var data detailData
	err := c.do(ctx, detailOperation, detailDocument, map[string]any{
		"id":   id,
		"lang": c.language,
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.Pokemon) == 0 {
		debuglog.Debugf("detail %d: no record", id)
		return nil, nil
	}
	return normalizeDetail(data.Pokemon[0]), nil
}

func (c *Client) do(ctx context.Context, op, document string, vars map[string]any, out any) error {
	c.limiter.Take()

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{OperationName: op, Query: document, Variables: vars}).
		Post(c.endpoint)
	if err != nil {
		debuglog.Warnf("%s: transport error: %v", op, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		debuglog.Warnf("%s: status %d", op, resp.StatusCode())
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode())
	}

	var envelope response
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		qe := &QueryError{Operation: op}
		for _, e := range envelope.Errors {
			qe.Messages = append(qe.Messages, e.Message)
		}
		debuglog.Warnf("%v", qe)
		return qe
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%s: response has no data", op)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: decoding data: %w", op, err)
	}
	return nil
}
